package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studygo/planner/domain"
	"github.com/studygo/planner/usecase/identity"
	"github.com/studygo/planner/usecase/session"
)

// memStore records saves so tests can assert the write-through happened.
type memStore struct {
	saved    *domain.Snapshot
	saves    int
	saveErr  error
	snapshot *domain.Snapshot
}

func (m *memStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	return m.snapshot, nil
}

func (m *memStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = snapshot
	m.saves++
	return nil
}

type fixture struct {
	store    *memStore
	identity *identity.UseCase
	planner  *UseCase
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := &memStore{}
	state := session.Load(context.Background(), store, nil)
	f := &fixture{
		store:    store,
		identity: identity.New(state, nil),
		planner:  New(state, nil),
		now:      time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	f.planner.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) advanceDays(days int) {
	f.now = f.now.AddDate(0, 0, days)
}

func (f *fixture) completeNew(t *testing.T, title string) *CompletionResult {
	t.Helper()
	task, err := f.planner.AddTask(context.Background(), title, "", "", nil)
	require.NoError(t, err)
	result, err := f.planner.CompleteTask(context.Background(), task.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestRegistration(t *testing.T) {
	t.Run("fresh registration starts at zero", func(t *testing.T) {
		f := newFixture(t)

		user, err := f.identity.Register(context.Background(), "alice", "secret")
		require.NoError(t, err)
		assert.Equal(t, 0, user.XP)
		assert.Equal(t, 0, user.Streak)

		badges, err := f.planner.Badges(context.Background())
		require.NoError(t, err)
		require.Len(t, badges, 4)
		for _, badge := range badges {
			assert.False(t, badge.Earned, badge.ID)
		}
		assert.Positive(t, f.store.saves)
	})

	t.Run("duplicate username is rejected without side effects", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.identity.Register(context.Background(), "alice", "secret")
		require.NoError(t, err)
		savesBefore := f.store.saves

		_, err = f.identity.Register(context.Background(), "alice", "other")
		assert.ErrorIs(t, err, domain.ErrUsernameTaken)
		assert.Equal(t, savesBefore, f.store.saves)
	})
}

func TestAddTask(t *testing.T) {
	t.Run("requires an active session", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.planner.AddTask(context.Background(), "Read Ch.1", "", "", nil)
		assert.ErrorIs(t, err, domain.ErrNoActiveSession)
	})

	t.Run("rejects empty titles", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.identity.Register(context.Background(), "alice", "secret")
		require.NoError(t, err)

		_, err = f.planner.AddTask(context.Background(), "", "", "", nil)
		assert.ErrorIs(t, err, domain.ErrEmptyTitle)
	})

	t.Run("new task is active and owned by the session user", func(t *testing.T) {
		f := newFixture(t)
		user, err := f.identity.Register(context.Background(), "alice", "secret")
		require.NoError(t, err)

		task, err := f.planner.AddTask(context.Background(), "Read Ch.1", "intro", "reading", nil)
		require.NoError(t, err)
		assert.Equal(t, user.ID, task.UserID)
		assert.False(t, task.Completed)
		assert.Nil(t, task.CompletedAt)

		tasks, err := f.planner.Tasks(context.Background())
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, task.ID, tasks[0].ID)
	})
}

func TestCompleteTask(t *testing.T) {
	t.Run("first completion awards xp, streak and First Steps", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.identity.Register(context.Background(), "alice", "secret")
		require.NoError(t, err)

		result := f.completeNew(t, "Read Ch.1")
		assert.Equal(t, 10, result.XP)
		assert.Equal(t, 1, result.Streak)
		require.Len(t, result.NewBadges, 1)
		assert.Equal(t, "first-task", result.NewBadges[0].ID)
		assert.True(t, result.Task.Completed)
		require.NotNil(t, result.Task.CompletedAt)
	})

	t.Run("xp grows by exactly ten per completion", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.identity.Register(context.Background(), "alice", "secret")
		require.NoError(t, err)

		for i := 1; i <= 5; i++ {
			result := f.completeNew(t, "task")
			assert.Equal(t, i*domain.XPReward, result.XP)
		}
	})

	t.Run("completing twice is a benign no-op", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.identity.Register(context.Background(), "alice", "secret")
		require.NoError(t, err)

		task, err := f.planner.AddTask(context.Background(), "Read Ch.1", "", "", nil)
		require.NoError(t, err)

		first, err := f.planner.CompleteTask(context.Background(), task.ID)
		require.NoError(t, err)
		require.NotNil(t, first)

		second, err := f.planner.CompleteTask(context.Background(), task.ID)
		require.NoError(t, err)
		assert.Nil(t, second)

		tasks, err := f.planner.Tasks(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 10, first.XP)
		require.Len(t, tasks, 1)
	})

	t.Run("unknown task id is a benign no-op", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.identity.Register(context.Background(), "alice", "secret")
		require.NoError(t, err)

		result, err := f.planner.CompleteTask(context.Background(), "missing")
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("task crusher lands on exactly the tenth completion", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.identity.Register(context.Background(), "alice", "secret")
		require.NoError(t, err)

		for i := 1; i <= 9; i++ {
			result := f.completeNew(t, "task")
			for _, badge := range result.NewBadges {
				assert.NotEqual(t, "tasks-10", badge.ID)
			}
		}

		tenth := f.completeNew(t, "task")
		ids := badgeIDs(tenth.NewBadges)
		assert.Contains(t, ids, "tasks-10")
		// 100 XP lands on the same completion.
		assert.Contains(t, ids, "xp-100")
	})

	t.Run("five consecutive days earn Consistent Learner", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.identity.Register(context.Background(), "alice", "secret")
		require.NoError(t, err)

		for day := 1; day <= 4; day++ {
			result := f.completeNew(t, "task")
			assert.Equal(t, day, result.Streak)
			for _, badge := range result.NewBadges {
				assert.NotEqual(t, "streak-5", badge.ID)
			}
			f.advanceDays(1)
		}

		fifth := f.completeNew(t, "task")
		assert.Equal(t, 5, fifth.Streak)
		assert.Contains(t, badgeIDs(fifth.NewBadges), "streak-5")
	})

	t.Run("skipping a day restarts the streak", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.identity.Register(context.Background(), "alice", "secret")
		require.NoError(t, err)

		f.completeNew(t, "task")
		f.advanceDays(1)
		assert.Equal(t, 2, f.completeNew(t, "task").Streak)

		f.advanceDays(2)
		assert.Equal(t, 1, f.completeNew(t, "task").Streak)
	})

	t.Run("same-day completions do not inflate the streak", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.identity.Register(context.Background(), "alice", "secret")
		require.NoError(t, err)

		assert.Equal(t, 1, f.completeNew(t, "one").Streak)
		assert.Equal(t, 1, f.completeNew(t, "two").Streak)
	})

	t.Run("badges never regress once earned", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.identity.Register(context.Background(), "alice", "secret")
		require.NoError(t, err)

		f.completeNew(t, "task")
		f.advanceDays(3)
		f.completeNew(t, "task")

		badges, err := f.planner.Badges(context.Background())
		require.NoError(t, err)
		assert.True(t, badgesByID(badges)["first-task"].Earned)
	})

	t.Run("persistence failure keeps the in-memory state authoritative", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.identity.Register(context.Background(), "alice", "secret")
		require.NoError(t, err)

		f.store.saveErr = errors.New("disk full")
		result := f.completeNew(t, "task")
		assert.Equal(t, 10, result.XP)

		tasks, err := f.planner.Tasks(context.Background())
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.True(t, tasks[0].Completed)
	})
}

func TestDeleteTask(t *testing.T) {
	t.Run("removes regardless of completion state", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.identity.Register(context.Background(), "alice", "secret")
		require.NoError(t, err)

		open, err := f.planner.AddTask(context.Background(), "open", "", "", nil)
		require.NoError(t, err)
		done := f.completeNew(t, "done")

		require.NoError(t, f.planner.DeleteTask(context.Background(), open.ID))
		require.NoError(t, f.planner.DeleteTask(context.Background(), done.Task.ID))

		tasks, err := f.planner.Tasks(context.Background())
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("missing task is a benign no-op", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.identity.Register(context.Background(), "alice", "secret")
		require.NoError(t, err)
		savesBefore := f.store.saves

		require.NoError(t, f.planner.DeleteTask(context.Background(), "missing"))
		assert.Equal(t, savesBefore, f.store.saves)
	})
}

func badgeIDs(badges []domain.Badge) []string {
	out := make([]string, 0, len(badges))
	for _, badge := range badges {
		out = append(out, badge.ID)
	}
	return out
}

func badgesByID(badges []domain.Badge) map[string]domain.Badge {
	out := make(map[string]domain.Badge, len(badges))
	for _, badge := range badges {
		out[badge.ID] = badge
	}
	return out
}
