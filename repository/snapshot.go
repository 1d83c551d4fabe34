package repository

import (
	"context"

	"github.com/studygo/planner/domain"
)

// SnapshotStore persists the whole application state as one record.
// Load returns (nil, nil) when nothing has been stored yet; callers
// seed a fresh snapshot in that case.
type SnapshotStore interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snapshot *domain.Snapshot) error
}
