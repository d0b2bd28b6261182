package snapshot

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/orgwatch/pkg/domain/model"
)

// FileStore keeps the snapshot in a local JSON file
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the snapshot file. A missing or unparsable file yields an empty
// snapshot.
func (s *FileStore) Load(ctx context.Context) *model.Snapshot {
	logger := ctxlog.From(ctx)

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("No snapshot found, starting from empty state", "path", s.path)
		} else {
			logger.Warn("Failed to read snapshot, starting from empty state", "path", s.path, "error", err)
		}
		return model.NewSnapshot()
	}

	snap, err := decode(raw)
	if err != nil {
		logger.Warn("Failed to parse snapshot, starting from empty state", "path", s.path, "error", err)
		return model.NewSnapshot()
	}

	logger.Debug("Loaded snapshot", "path", s.path, "repos", len(snap.Repos))
	return snap
}

// Save writes the snapshot to a temporary file in the same directory and
// renames it over the previous one, so readers see either the old or the new
// document.
func (s *FileStore) Save(ctx context.Context, snap *model.Snapshot) error {
	raw, err := encode(snap)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return goerr.Wrap(err, "failed to create snapshot directory", goerr.V("dir", dir))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary snapshot file", goerr.V("dir", dir))
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return goerr.Wrap(err, "failed to write temporary snapshot file", goerr.V("path", tmpPath))
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return goerr.Wrap(err, "failed to sync temporary snapshot file", goerr.V("path", tmpPath))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close temporary snapshot file", goerr.V("path", tmpPath))
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return goerr.Wrap(err, "failed to set snapshot file permissions", goerr.V("path", tmpPath))
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return goerr.Wrap(err, "failed to replace snapshot file",
			goerr.V("from", tmpPath),
			goerr.V("to", s.path),
		)
	}
	committed = true

	// Persist the rename itself. Not all platforms support syncing a directory.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	ctxlog.From(ctx).Debug("Saved snapshot", "path", s.path, "size", len(raw))
	return nil
}
