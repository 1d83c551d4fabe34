package domain

// Snapshot is the complete persisted application state: every user, the
// pooled task list, each user's badge copy and the active session
// pointer. It is passed explicitly through the use cases; there is no
// ambient global.
type Snapshot struct {
	CurrentUserID string             `json:"current_user_id,omitempty"`
	Users         []User             `json:"users"`
	Tasks         []Task             `json:"tasks"`
	Badges        map[string][]Badge `json:"badges"`
}

// NewSnapshot returns an empty snapshot ready for first use.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Badges: make(map[string][]Badge),
	}
}

// CurrentUser returns the active session user, or nil when logged out.
func (s *Snapshot) CurrentUser() *User {
	if s == nil || s.CurrentUserID == "" {
		return nil
	}
	return s.UserByID(s.CurrentUserID)
}

// UserByID returns a pointer into the user list, or nil.
func (s *Snapshot) UserByID(id string) *User {
	if s == nil {
		return nil
	}
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i]
		}
	}
	return nil
}

// UserByUsername looks up a user by exact username match.
func (s *Snapshot) UserByUsername(username string) *User {
	if s == nil {
		return nil
	}
	for i := range s.Users {
		if s.Users[i].Username == username {
			return &s.Users[i]
		}
	}
	return nil
}

// TaskByID returns a pointer into the task list, or nil.
func (s *Snapshot) TaskByID(id string) *Task {
	if s == nil {
		return nil
	}
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return &s.Tasks[i]
		}
	}
	return nil
}

// TasksFor returns the tasks owned by the given user, in ledger order.
func (s *Snapshot) TasksFor(userID string) []Task {
	if s == nil {
		return nil
	}
	var tasks []Task
	for _, t := range s.Tasks {
		if t.UserID == userID {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// BadgesFor returns the user's badge copy, seeding it from the default
// catalog on first access. Users loaded from snapshots written before
// badges were partitioned per user get a fresh catalog here.
func (s *Snapshot) BadgesFor(userID string) []Badge {
	if s == nil || userID == "" {
		return nil
	}
	if s.Badges == nil {
		s.Badges = make(map[string][]Badge)
	}
	if _, ok := s.Badges[userID]; !ok {
		s.Badges[userID] = DefaultBadges()
	}
	return s.Badges[userID]
}

// Clone returns a deep copy, safe to hand to the persister while the
// original keeps mutating.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		CurrentUserID: s.CurrentUserID,
		Users:         append([]User(nil), s.Users...),
		Tasks:         append([]Task(nil), s.Tasks...),
		Badges:        make(map[string][]Badge, len(s.Badges)),
	}
	for userID, badges := range s.Badges {
		out.Badges[userID] = append([]Badge(nil), badges...)
	}
	return out
}
