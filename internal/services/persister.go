package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/studygo/planner/domain"
	"github.com/studygo/planner/repository"
)

// PersisterConfig controls how frequently failed writes are retried.
type PersisterConfig struct {
	RetryInterval time.Duration
	SaveTimeout   time.Duration
}

// Persister wraps a SnapshotStore with write-through semantics: every
// save is attempted immediately, and on failure the latest snapshot is
// kept pending and retried on a schedule. Only the newest snapshot
// matters, so pending writes coalesce.
type Persister struct {
	store  repository.SnapshotStore
	logger *zap.Logger
	cron   *cron.Cron
	cfg    PersisterConfig

	mu      sync.Mutex
	pending *domain.Snapshot
}

func NewPersister(store repository.SnapshotStore, logger *zap.Logger, cfg PersisterConfig) *Persister {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 30 * time.Second
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Persister{
		store:  store,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.RetryInterval.Seconds()))
	_, _ = p.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.SaveTimeout)
		defer cancel()
		p.retry(ctx)
	})

	return p
}

// Start launches the retry scheduler.
func (p *Persister) Start() {
	if p == nil || p.cron == nil {
		return
	}
	p.cron.Start()
	p.logger.Info("persister started")
}

// Stop halts the scheduler and makes a last attempt at any pending
// write.
func (p *Persister) Stop(ctx context.Context) {
	if p == nil || p.cron == nil {
		return
	}
	stopCtx := p.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	p.retry(ctx)
	p.logger.Info("persister stopped")
}

// Load delegates to the underlying store.
func (p *Persister) Load(ctx context.Context) (*domain.Snapshot, error) {
	return p.store.Load(ctx)
}

// Save attempts the write immediately and falls back to keeping the
// snapshot pending for the retry schedule. The caller never sees the
// failure beyond the returned error being logged upstream.
func (p *Persister) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	if err := p.store.Save(ctx, snapshot); err != nil {
		p.logger.Warn("immediate save failed, snapshot kept pending", zap.Error(err))
		p.mu.Lock()
		p.pending = snapshot
		p.mu.Unlock()
		return err
	}

	// A successful write supersedes any older pending snapshot.
	p.mu.Lock()
	p.pending = nil
	p.mu.Unlock()
	return nil
}

// Dirty reports whether a snapshot is still waiting to reach the store.
func (p *Persister) Dirty() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending != nil
}

func (p *Persister) retry(ctx context.Context) {
	p.mu.Lock()
	snapshot := p.pending
	p.mu.Unlock()
	if snapshot == nil {
		return
	}

	if err := p.store.Save(ctx, snapshot); err != nil {
		p.logger.Error("pending snapshot retry failed", zap.Error(err))
		return
	}

	p.mu.Lock()
	if p.pending == snapshot {
		p.pending = nil
	}
	p.mu.Unlock()
	p.logger.Info("pending snapshot persisted")
}
