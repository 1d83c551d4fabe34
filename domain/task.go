package domain

import "time"

// Task represents a user-owned study item. Completion is irreversible:
// CompletedAt is stamped exactly once, when Completed flips to true.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Completed
}
