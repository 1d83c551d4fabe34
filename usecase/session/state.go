// Package session owns the authoritative in-memory snapshot and the
// write-through seam to the snapshot store.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/studygo/planner/domain"
	"github.com/studygo/planner/repository"
)

// State holds the live snapshot. Reads and mutations go through Update
// and View, which serialize the single logical session; persistence
// failures are logged and never surfaced, so the in-memory snapshot
// stays authoritative for the rest of the session.
type State struct {
	store  repository.SnapshotStore
	logger *zap.Logger

	mu       sync.Mutex
	snapshot *domain.Snapshot
}

// Load reads the stored snapshot, seeding a fresh one when the store is
// empty or unreadable.
func Load(ctx context.Context, store repository.SnapshotStore, logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}

	snapshot, err := store.Load(ctx)
	if err != nil {
		logger.Error("failed to load snapshot, starting fresh", zap.Error(err))
	}
	if snapshot == nil {
		snapshot = domain.NewSnapshot()
	}

	return &State{
		store:    store,
		logger:   logger,
		snapshot: snapshot,
	}
}

// Update runs fn against the snapshot under the session lock and, when
// fn reports a mutation, writes the snapshot through to the store.
func (s *State) Update(ctx context.Context, fn func(snapshot *domain.Snapshot) (mutated bool, err error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mutated, err := fn(s.snapshot)
	if mutated {
		s.persistLocked(ctx)
	}
	return err
}

// View runs fn against the snapshot under the session lock without
// persisting.
func (s *State) View(fn func(snapshot *domain.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.snapshot)
}

// persistLocked writes through to the store. Failures degrade to
// "changes may not survive a reload" and are only logged.
func (s *State) persistLocked(ctx context.Context) {
	if err := s.store.Save(ctx, s.snapshot.Clone()); err != nil {
		s.logger.Error("failed to persist snapshot", zap.Error(err))
	}
}
