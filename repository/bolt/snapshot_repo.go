package bolt

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/studygo/planner/domain"
)

// StorageKey is the fixed record key the snapshot lives under.
const StorageKey = "study_planner_data"

// Store persists the planner snapshot in a local BoltDB file, one JSON
// blob under a fixed key.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = "planner"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

// Load reads the stored snapshot. A missing key yields (nil, nil).
func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(s.bucket).Get([]byte(StorageKey)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return decodeSnapshot(raw)
}

// Save writes the snapshot under the fixed key.
func (s *Store) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(StorageKey), payload)
	})
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Stats exposes Bolt statistics for the health endpoint.
func (s *Store) Stats() bolt.Stats {
	if s == nil || s.db == nil {
		return bolt.Stats{}
	}
	return s.db.Stats()
}

// persistedState mirrors domain.Snapshot but leaves the badge field raw
// so both shapes decode: the current per-user map and the legacy single
// flat list shared across all users.
type persistedState struct {
	CurrentUserID string          `json:"current_user_id,omitempty"`
	Users         []domain.User   `json:"users"`
	Tasks         []domain.Task   `json:"tasks"`
	Badges        json.RawMessage `json:"badges"`
}

func decodeSnapshot(raw []byte) (*domain.Snapshot, error) {
	var state persistedState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}

	snapshot := &domain.Snapshot{
		CurrentUserID: state.CurrentUserID,
		Users:         state.Users,
		Tasks:         state.Tasks,
		Badges:        make(map[string][]domain.Badge),
	}

	if len(state.Badges) == 0 {
		return snapshot, nil
	}

	var perUser map[string][]domain.Badge
	if err := json.Unmarshal(state.Badges, &perUser); err == nil {
		if perUser != nil {
			snapshot.Badges = perUser
		}
		return snapshot, nil
	}

	// Legacy layout: one flat badge list shared across every user. Copy
	// it to each stored user so earned flags survive the migration.
	var flat []domain.Badge
	if err := json.Unmarshal(state.Badges, &flat); err != nil {
		return nil, err
	}
	for _, u := range snapshot.Users {
		snapshot.Badges[u.ID] = append([]domain.Badge(nil), flat...)
	}
	return snapshot, nil
}
