package usecase_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/orgwatch/pkg/domain/model"
	"github.com/m-mizutani/orgwatch/pkg/domain/types"
	"github.com/m-mizutani/orgwatch/pkg/usecase"
)

func repoNames(repos []*model.Repository) []types.RepoName {
	names := make([]types.RepoName, 0, len(repos))
	for _, r := range repos {
		names = append(names, r.Name)
	}
	return names
}

func tagNames(tags []*model.Tag) []types.TagName {
	names := make([]types.TagName, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

func TestDetectNewRepositories(t *testing.T) {
	current := []*model.Repository{
		{Name: "gamma", ID: 3},
		{Name: "alpha", ID: 1},
		nil,
		{Name: "beta", ID: 2},
	}

	t.Run("empty snapshot reports all in input order", func(t *testing.T) {
		found := usecase.DetectNewRepositories(current, model.NewSnapshot())
		gt.Value(t, repoNames(found)).Equal([]types.RepoName{"gamma", "alpha", "beta"})
	})

	t.Run("known names are skipped", func(t *testing.T) {
		snap := model.NewSnapshot()
		snap.Repos = []model.RepoRef{{Name: "alpha", ID: 1}}

		found := usecase.DetectNewRepositories(current, snap)
		gt.Value(t, repoNames(found)).Equal([]types.RepoName{"gamma", "beta"})
	})

	t.Run("identity is the name, not the id", func(t *testing.T) {
		snap := model.NewSnapshot()
		snap.Repos = []model.RepoRef{{Name: "old-name", ID: 1}, {Name: "beta", ID: 99}}

		found := usecase.DetectNewRepositories([]*model.Repository{
			{Name: "new-name", ID: 1},
			{Name: "beta", ID: 2},
		}, snap)
		gt.Value(t, repoNames(found)).Equal([]types.RepoName{"new-name"})
	})

	t.Run("snapshot built from the same input yields nothing", func(t *testing.T) {
		snap := model.NewSnapshot()
		snap.ReplaceRepos(current)

		found := usecase.DetectNewRepositories(current, snap)
		gt.Array(t, found).Length(0)
	})

	t.Run("does not mutate snapshot", func(t *testing.T) {
		snap := model.NewSnapshot()
		_ = usecase.DetectNewRepositories(current, snap)
		gt.Array(t, snap.Repos).Length(0)
	})
}

func TestDetectNewReleases(t *testing.T) {
	snap := model.NewSnapshot()
	snap.Releases["x"] = []model.ReleaseRef{{ID: 1, TagName: "v1.0"}}
	snap.Releases["y"] = []model.ReleaseRef{{ID: 2, TagName: "v2.0"}}

	current := []*model.Release{
		{ID: 3, TagName: "v3.0"},
		{ID: 1, TagName: "v1.0"},
		{ID: 2, TagName: "v2.0"},
	}

	found := usecase.DetectNewReleases("x", current, snap)
	gt.Array(t, found).Length(2)
	gt.Value(t, found[0].ID).Equal(types.ReleaseID(3))
	gt.Value(t, found[1].ID).Equal(types.ReleaseID(2))

	t.Run("compares by id, not tag name", func(t *testing.T) {
		found := usecase.DetectNewReleases("x", []*model.Release{{ID: 10, TagName: "v1.0"}}, snap)
		gt.Array(t, found).Length(1)
	})

	t.Run("unknown repository reports everything", func(t *testing.T) {
		found := usecase.DetectNewReleases("z", current, snap)
		gt.Array(t, found).Length(3)
	})

	t.Run("release without tag name is tolerated", func(t *testing.T) {
		found := usecase.DetectNewReleases("x", []*model.Release{{ID: 4}, nil}, snap)
		gt.Array(t, found).Length(1)
		gt.Value(t, found[0].TagName).Equal(types.TagName(""))
	})
}

func TestDetectNewTags(t *testing.T) {
	snap := model.NewSnapshot()
	snap.Tags["x"] = []model.TagRef{{Name: "v1.0", Commit: "aaa"}}

	current := []*model.Tag{
		{Name: "v1.1", CommitSHA: "bbb"},
		{Name: "v1.0", CommitSHA: "changed"},
		{Name: "v0.9", CommitSHA: "ccc"},
	}

	found := usecase.DetectNewTags("x", current, snap)
	gt.Value(t, tagNames(found)).Equal([]types.TagName{"v1.1", "v0.9"})
}

func TestFilterTagsCoveredByReleases(t *testing.T) {
	newTags := []*model.Tag{
		{Name: "v1.0"},
		{Name: "v2.0"},
		{Name: "V3.0"},
		{Name: "nightly"},
	}

	known := []model.ReleaseRef{{ID: 1, TagName: "v1.0"}}
	detected := []*model.Release{{ID: 2, TagName: "v2.0"}, {ID: 3, TagName: "v3.0"}, {ID: 4}}

	remaining := usecase.FilterTagsCoveredByReleases(newTags, known, detected)
	gt.Value(t, tagNames(remaining)).Equal([]types.TagName{"V3.0", "nightly"})

	t.Run("no releases keeps all tags", func(t *testing.T) {
		remaining := usecase.FilterTagsCoveredByReleases(newTags, nil, nil)
		gt.Array(t, remaining).Length(4)
	})
}
