package snapshot_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/orgwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/orgwatch/pkg/domain/model"
	"github.com/m-mizutani/orgwatch/pkg/infra/snapshot"
)

func sampleSnapshot() *model.Snapshot {
	snap := model.NewSnapshot()
	snap.ReplaceRepos([]*model.Repository{{Name: "alpha", ID: 1}, {Name: "empty", ID: 2}})
	snap.ReplaceReleases("alpha", []*model.Release{{ID: 10, TagName: "v1.0"}})
	snap.ReplaceTags("alpha", []*model.Tag{{Name: "v1.0", CommitSHA: "abc"}})
	snap.ReplaceReleases("empty", nil)
	snap.ReplaceTags("empty", nil)
	return snap
}

// testStoreRoundTrip is shared by every backend
func testStoreRoundTrip(t *testing.T, store interfaces.SnapshotStore) {
	ctx := context.Background()

	gt.NoError(t, store.Save(ctx, sampleSnapshot()))

	loaded := store.Load(ctx)
	gt.Value(t, loaded).Equal(sampleSnapshot())
	gt.Map(t, loaded.Releases).HasKey("empty")
	gt.Map(t, loaded.Tags).HasKey("empty")
	gt.Value(t, loaded.Releases["empty"]).Equal([]model.ReleaseRef{})
	gt.Value(t, loaded.Tags["empty"]).Equal([]model.TagRef{})

	// overwrite with a newer snapshot
	next := sampleSnapshot()
	next.ReplaceTags("alpha", []*model.Tag{{Name: "v1.0", CommitSHA: "abc"}, {Name: "v1.1", CommitSHA: "def"}})
	gt.NoError(t, store.Save(ctx, next))
	gt.Number(t, len(store.Load(ctx).Tags["alpha"])).Equal(2)
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "snapshot.json")
	testStoreRoundTrip(t, snapshot.NewFileStore(path))
}

func TestFileStore_LoadMissing(t *testing.T) {
	store := snapshot.NewFileStore(filepath.Join(t.TempDir(), "missing.json"))

	loaded := store.Load(context.Background())
	gt.Value(t, loaded).Equal(model.NewSnapshot())
}

func TestFileStore_LoadCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	gt.NoError(t, os.WriteFile(path, []byte(`{"repos": [`), 0644))

	loaded := snapshot.NewFileStore(path).Load(context.Background())
	gt.Value(t, loaded).Equal(model.NewSnapshot())
}

func TestFileStore_LoadLegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	doc := `{
  "repos": [{"name": "x", "id": 1}],
  "releases": {"x": [{"id": 1, "tag_name": "v1.0"}]},
  "tags": {"x": [{"name": "v1.0", "commit": "abc"}]}
}`
	gt.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	loaded := snapshot.NewFileStore(path).Load(context.Background())
	gt.Value(t, loaded.Repos).Equal([]model.RepoRef{{Name: "x", ID: 1}})
	gt.Value(t, loaded.Releases["x"]).Equal([]model.ReleaseRef{{ID: 1, TagName: "v1.0"}})
	gt.Value(t, loaded.Tags["x"]).Equal([]model.TagRef{{Name: "v1.0", Commit: "abc"}})
}

func TestFileStore_SaveLeavesNoTemporaryFiles(t *testing.T) {
	dir := t.TempDir()
	store := snapshot.NewFileStore(filepath.Join(dir, "snapshot.json"))

	gt.NoError(t, store.Save(context.Background(), sampleSnapshot()))
	gt.NoError(t, store.Save(context.Background(), sampleSnapshot()))

	entries, err := os.ReadDir(dir)
	gt.NoError(t, err)
	gt.Array(t, entries).Length(1)
	gt.Value(t, entries[0].Name()).Equal("snapshot.json")

	raw, err := os.ReadFile(filepath.Join(dir, "snapshot.json"))
	gt.NoError(t, err)
	gt.String(t, string(raw)).Contains(`"empty": []`)
}

func TestFileStore_SaveFailureKeepsPreviousSnapshot(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")
	store := snapshot.NewFileStore(path)
	ctx := context.Background()

	gt.NoError(t, store.Save(ctx, sampleSnapshot()))

	gt.NoError(t, os.Chmod(dir, 0555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0755) })

	next := model.NewSnapshot()
	next.ReplaceRepos([]*model.Repository{{Name: "other", ID: 9}})
	gt.Error(t, store.Save(ctx, next))

	gt.Value(t, store.Load(ctx)).Equal(sampleSnapshot())
}
