package bolt

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bbolt "go.etcd.io/bbolt"

	"github.com/studygo/planner/domain"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "planner.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadMissingKey(t *testing.T) {
	store := openStore(t)

	snapshot, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openStore(t)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	snapshot := domain.NewSnapshot()
	snapshot.CurrentUserID = "u1"
	snapshot.Users = []domain.User{{ID: "u1", Username: "alice", XP: 30, Streak: 2, CreatedAt: now}}
	snapshot.Tasks = []domain.Task{{ID: "t1", UserID: "u1", Title: "Read Ch.1", Completed: true, CompletedAt: &now, CreatedAt: now}}
	snapshot.Badges["u1"] = domain.DefaultBadges()
	snapshot.Badges["u1"][0].Earned = true
	snapshot.Badges["u1"][0].EarnedAt = &now

	require.NoError(t, store.Save(context.Background(), snapshot))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, snapshot.CurrentUserID, loaded.CurrentUserID)
	assert.Equal(t, snapshot.Users, loaded.Users)
	assert.Equal(t, snapshot.Tasks, loaded.Tasks)
	require.Len(t, loaded.Badges["u1"], 4)
	assert.True(t, loaded.Badges["u1"][0].Earned)
}

func TestSaveOverwritesPreviousSnapshot(t *testing.T) {
	store := openStore(t)

	first := domain.NewSnapshot()
	first.Users = []domain.User{{ID: "u1", Username: "alice"}}
	require.NoError(t, store.Save(context.Background(), first))

	second := domain.NewSnapshot()
	second.Users = []domain.User{{ID: "u1", Username: "alice"}, {ID: "u2", Username: "bob"}}
	require.NoError(t, store.Save(context.Background(), second))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded.Users, 2)
}

func TestLegacyFlatBadgeListMigrates(t *testing.T) {
	store := openStore(t)

	// Blob written by the original layout: one badge list shared across
	// all users instead of a per-user map.
	legacy := map[string]interface{}{
		"current_user_id": "u1",
		"users": []domain.User{
			{ID: "u1", Username: "alice"},
			{ID: "u2", Username: "bob"},
		},
		"tasks": []domain.Task{},
		"badges": []domain.Badge{
			{ID: "first-task", Name: "First Steps", Earned: true},
			{ID: "streak-5", Name: "Consistent Learner"},
		},
	}
	raw, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(store.bucket).Put([]byte(StorageKey), raw)
	}))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, loaded)

	// Every stored user receives a copy, earned flags intact.
	for _, userID := range []string{"u1", "u2"} {
		badges := loaded.Badges[userID]
		require.Len(t, badges, 2, userID)
		assert.True(t, badges[0].Earned)
		assert.False(t, badges[1].Earned)
	}
}

func TestCorruptBlobFailsLoad(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(store.bucket).Put([]byte(StorageKey), []byte("{not json"))
	}))

	_, err := store.Load(context.Background())
	assert.Error(t, err)
}
