package interfaces

import (
	"context"

	"github.com/m-mizutani/orgwatch/pkg/domain/model"
)

// SnapshotStore persists the diff baseline between passes.
type SnapshotStore interface {
	// Load returns the last persisted snapshot. It never fails: a missing or
	// unreadable snapshot yields an empty one.
	Load(ctx context.Context) *model.Snapshot

	// Save replaces the persisted snapshot atomically. On error the previous
	// snapshot is left intact.
	Save(ctx context.Context, snapshot *model.Snapshot) error
}
