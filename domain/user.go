package domain

import "time"

// XPReward is the fixed amount of XP granted per completed task.
const XPReward = 10

// User represents a registered learner. XP only ever grows, in fixed
// increments of XPReward; Streak is a cached value recomputed at
// completion time, not continuously.
type User struct {
	ID                string     `json:"id"`
	Username          string     `json:"username"`
	XP                int        `json:"xp"`
	Streak            int        `json:"streak"`
	LastCompletedDate *time.Time `json:"last_completed_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}
