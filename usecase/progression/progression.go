// Package progression implements the streak and badge rules. Every
// function is pure: state in, state out, the reference time passed
// explicitly.
package progression

import (
	"math"
	"sort"
	"time"

	"github.com/studygo/planner/domain"
)

// CalculateStreak returns the number of consecutive calendar days,
// ending at the user's most recent completion, with at least one
// completed task. Multiple completions on one day count once. A streak
// abandoned for more than one day past its last completion reports 0,
// regardless of how long it ran.
func CalculateStreak(user domain.User, tasks []domain.Task, now time.Time) int {
	completed := completedTasks(user.ID, tasks)
	if len(completed) == 0 {
		return 0
	}

	sort.Slice(completed, func(i, j int) bool {
		return completed[i].CompletedAt.After(*completed[j].CompletedAt)
	})

	if daysBetween(startOfDay(now), startOfDay(*completed[0].CompletedAt)) > 1 {
		return 0
	}

	streak := 1
	anchor := startOfDay(*completed[0].CompletedAt)
	for _, task := range completed[1:] {
		day := startOfDay(*task.CompletedAt)
		switch diff := daysBetween(anchor, day); {
		case diff == 1:
			streak++
			anchor = day
		case diff > 1:
			return streak
		}
		// diff == 0: another completion on the anchor day, skip.
	}
	return streak
}

// EvaluateBadges re-checks every unearned badge against the post-update
// user and task state and stamps newly satisfied ones. Earned badges
// pass through untouched, which makes the evaluation idempotent.
func EvaluateBadges(user domain.User, tasks []domain.Task, badges []domain.Badge, now time.Time) []domain.Badge {
	completedCount := len(completedTasks(user.ID, tasks))

	out := make([]domain.Badge, len(badges))
	for i, badge := range badges {
		if badge.Earned {
			out[i] = badge
			continue
		}

		var satisfied bool
		switch badge.Condition.Type {
		case domain.ConditionFirstTask:
			satisfied = completedCount > 0
		case domain.ConditionXP:
			satisfied = user.XP >= badge.Condition.Value
		case domain.ConditionStreak:
			satisfied = user.Streak >= badge.Condition.Value
		case domain.ConditionTasksCompleted:
			satisfied = completedCount >= badge.Condition.Value
		}

		if satisfied {
			badge.Earned = true
			earnedAt := now
			badge.EarnedAt = &earnedAt
		}
		out[i] = badge
	}
	return out
}

// NewlyEarned returns the badges earned in next but not in previous,
// matched by badge id.
func NewlyEarned(previous, next []domain.Badge) []domain.Badge {
	earnedBefore := make(map[string]bool, len(previous))
	for _, badge := range previous {
		earnedBefore[badge.ID] = badge.Earned
	}

	var earned []domain.Badge
	for _, badge := range next {
		if badge.Earned && !earnedBefore[badge.ID] {
			earned = append(earned, badge)
		}
	}
	return earned
}

func completedTasks(userID string, tasks []domain.Task) []domain.Task {
	var out []domain.Task
	for _, t := range tasks {
		if t.UserID == userID && t.Completed && t.CompletedAt != nil {
			out = append(out, t)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween reports a-b in whole calendar days, rounding to absorb
// DST-shortened or stretched days.
func daysBetween(a, b time.Time) int {
	return int(math.Round(a.Sub(b).Hours() / 24))
}
