// Package planner implements the task ledger and the completion
// transaction: ledger mutation, XP award, streak recompute, badge
// evaluation and a single persisted write, in that order.
package planner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studygo/planner/domain"
	"github.com/studygo/planner/usecase/progression"
	"github.com/studygo/planner/usecase/session"
)

// CompletionResult reports the outcome of a completion transaction for
// the presentation layer to surface as notifications.
type CompletionResult struct {
	Task      domain.Task    `json:"task"`
	XP        int            `json:"xp"`
	Streak    int            `json:"streak"`
	NewBadges []domain.Badge `json:"new_badges"`
}

type UseCase struct {
	state  *session.State
	logger *zap.Logger
	now    func() time.Time
}

func New(state *session.State, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		state:  state,
		logger: logger,
		now:    time.Now,
	}
}

// AddTask appends a new active task owned by the session user.
func (uc *UseCase) AddTask(ctx context.Context, title, description, category string, dueDate *time.Time) (*domain.Task, error) {
	var created domain.Task
	err := uc.state.Update(ctx, func(snapshot *domain.Snapshot) (bool, error) {
		user := snapshot.CurrentUser()
		if user == nil {
			return false, domain.ErrNoActiveSession
		}
		if title == "" {
			return false, domain.ErrEmptyTitle
		}

		created = domain.Task{
			ID:          uuid.NewString(),
			UserID:      user.ID,
			Title:       title,
			Description: description,
			Category:    category,
			DueDate:     dueDate,
			CreatedAt:   uc.now(),
		}
		snapshot.Tasks = append(snapshot.Tasks, created)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("task added", zap.String("task_id", created.ID), zap.String("user_id", created.UserID))
	return &created, nil
}

// CompleteTask runs the completion transaction. Completing a missing or
// already-completed task is a benign no-op and returns (nil, nil);
// badges are always evaluated against the post-update XP and streak.
func (uc *UseCase) CompleteTask(ctx context.Context, taskID string) (*CompletionResult, error) {
	var result *CompletionResult
	err := uc.state.Update(ctx, func(snapshot *domain.Snapshot) (bool, error) {
		user := snapshot.CurrentUser()
		if user == nil {
			return false, domain.ErrNoActiveSession
		}

		task := snapshot.TaskByID(taskID)
		if task == nil || task.Completed {
			return false, nil
		}

		now := uc.now()
		task.Completed = true
		completedAt := now
		task.CompletedAt = &completedAt

		user.XP += domain.XPReward
		lastCompleted := now
		user.LastCompletedDate = &lastCompleted
		user.Streak = progression.CalculateStreak(*user, snapshot.Tasks, now)

		previous := snapshot.BadgesFor(user.ID)
		updated := progression.EvaluateBadges(*user, snapshot.Tasks, previous, now)
		snapshot.Badges[user.ID] = updated

		result = &CompletionResult{
			Task:      *task,
			XP:        user.XP,
			Streak:    user.Streak,
			NewBadges: progression.NewlyEarned(previous, updated),
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if result != nil {
		uc.logger.Info("task completed",
			zap.String("task_id", taskID),
			zap.Int("xp", result.XP),
			zap.Int("streak", result.Streak),
			zap.Int("new_badges", len(result.NewBadges)))
	}
	return result, nil
}

// DeleteTask removes the task regardless of state; deleting a missing
// task is a benign no-op.
func (uc *UseCase) DeleteTask(ctx context.Context, taskID string) error {
	return uc.state.Update(ctx, func(snapshot *domain.Snapshot) (bool, error) {
		if snapshot.CurrentUser() == nil {
			return false, domain.ErrNoActiveSession
		}
		for i, t := range snapshot.Tasks {
			if t.ID == taskID {
				snapshot.Tasks = append(snapshot.Tasks[:i], snapshot.Tasks[i+1:]...)
				return true, nil
			}
		}
		return false, nil
	})
}

// Tasks returns the session user's tasks in ledger order.
func (uc *UseCase) Tasks(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	var err error
	uc.state.View(func(snapshot *domain.Snapshot) {
		user := snapshot.CurrentUser()
		if user == nil {
			err = domain.ErrNoActiveSession
			return
		}
		tasks = snapshot.TasksFor(user.ID)
	})
	return tasks, err
}

// Badges returns the session user's badge list.
func (uc *UseCase) Badges(ctx context.Context) ([]domain.Badge, error) {
	var badges []domain.Badge
	var err error
	uc.state.View(func(snapshot *domain.Snapshot) {
		user := snapshot.CurrentUser()
		if user == nil {
			err = domain.ErrNoActiveSession
			return
		}
		badges = append([]domain.Badge(nil), snapshot.BadgesFor(user.ID)...)
	})
	return badges, err
}
