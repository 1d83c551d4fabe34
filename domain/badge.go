package domain

import "time"

// ConditionType enumerates the badge unlock condition variants.
type ConditionType string

const (
	ConditionFirstTask      ConditionType = "first_task"
	ConditionXP             ConditionType = "xp"
	ConditionStreak         ConditionType = "streak"
	ConditionTasksCompleted ConditionType = "tasks_completed"
)

// BadgeCondition is the tagged unlock rule for a badge. Value is the
// threshold for the xp/streak/tasks_completed variants and unused for
// first_task.
type BadgeCondition struct {
	Type  ConditionType `json:"type"`
	Value int           `json:"value,omitempty"`
}

// Badge is an achievement from the fixed catalog. Earned is monotonic:
// once true it never resets, and EarnedAt is stamped on that transition.
type Badge struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Icon        string         `json:"icon"`
	Condition   BadgeCondition `json:"condition"`
	Earned      bool           `json:"earned"`
	EarnedAt    *time.Time     `json:"earned_at,omitempty"`
}

// DefaultBadges returns a fresh copy of the fixed badge catalog. Each
// registered user gets their own copy with independent earned state.
func DefaultBadges() []Badge {
	return []Badge{
		{
			ID:          "first-task",
			Name:        "First Steps",
			Description: "Complete your first task",
			Icon:        "🌟",
			Condition:   BadgeCondition{Type: ConditionFirstTask},
		},
		{
			ID:          "streak-5",
			Name:        "Consistent Learner",
			Description: "Maintain a 5-day streak",
			Icon:        "🔥",
			Condition:   BadgeCondition{Type: ConditionStreak, Value: 5},
		},
		{
			ID:          "xp-100",
			Name:        "Study Master",
			Description: "Earn 100 XP",
			Icon:        "👑",
			Condition:   BadgeCondition{Type: ConditionXP, Value: 100},
		},
		{
			ID:          "tasks-10",
			Name:        "Task Crusher",
			Description: "Complete 10 tasks",
			Icon:        "💪",
			Condition:   BadgeCondition{Type: ConditionTasksCompleted, Value: 10},
		},
	}
}
