// Package identity implements the user registry: registration, login
// and logout against the shared snapshot.
package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studygo/planner/domain"
	"github.com/studygo/planner/usecase/session"
)

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

// Register creates a user with zero XP and streak, seeds their badge
// catalog and activates the session. Usernames are unique by exact
// string match.
func (uc *UseCase) Register(ctx context.Context, username, password string) (*domain.User, error) {
	var created domain.User
	err := uc.state.Update(ctx, func(snapshot *domain.Snapshot) (bool, error) {
		if username == "" {
			return false, domain.ErrInvalidPayload
		}
		if snapshot.UserByUsername(username) != nil {
			return false, domain.ErrUsernameTaken
		}

		created = domain.User{
			ID:        uuid.NewString(),
			Username:  username,
			CreatedAt: uc.now(),
		}
		snapshot.Users = append(snapshot.Users, created)
		snapshot.Badges[created.ID] = domain.DefaultBadges()
		snapshot.CurrentUserID = created.ID
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", zap.String("user_id", created.ID), zap.String("username", username))
	return &created, nil
}

// Login activates the session for an existing user. The password is
// accepted but not verified against anything; the stored model keeps no
// credential to check.
func (uc *UseCase) Login(ctx context.Context, username, password string) (*domain.User, error) {
	var found domain.User
	err := uc.state.Update(ctx, func(snapshot *domain.Snapshot) (bool, error) {
		user := snapshot.UserByUsername(username)
		if user == nil {
			return false, domain.ErrUserNotFound
		}
		found = *user
		snapshot.CurrentUserID = user.ID
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("user logged in", zap.String("user_id", found.ID), zap.String("username", username))
	return &found, nil
}

// Logout clears the active session pointer. The user and their data are
// untouched.
func (uc *UseCase) Logout(ctx context.Context) {
	_ = uc.state.Update(ctx, func(snapshot *domain.Snapshot) (bool, error) {
		if snapshot.CurrentUserID == "" {
			return false, nil
		}
		snapshot.CurrentUserID = ""
		return true, nil
	})
}

// CurrentUser returns a copy of the active session user, or nil.
func (uc *UseCase) CurrentUser() *domain.User {
	var current *domain.User
	uc.state.View(func(snapshot *domain.Snapshot) {
		if user := snapshot.CurrentUser(); user != nil {
			copied := *user
			current = &copied
		}
	})
	return current
}
