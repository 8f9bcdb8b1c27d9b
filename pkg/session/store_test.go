package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/germanamz/ioskit/pkg/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(id string) Session {
	now := time.Now().UTC().Truncate(time.Second)

	return Session{
		ID:           id,
		DeviceUDID:   "SIM-1",
		DeviceKind:   device.Simulator,
		CreatedAt:    now,
		LastActivity: now,
		Status:       StatusActive,
	}
}

func TestStore_PutGetDelete(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "sessions.json"))

	sess := testSession("session-1-aaaa")
	require.NoError(t, s.Put(sess))

	got, err := s.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	existed, err := s.Delete(sess.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = s.Delete(sess.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestStore_MissingFileIsEmpty(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nested", "dir", "sessions.json"))

	sessions, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestStore_ListSortedByCreation(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "sessions.json"))

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"c", "a", "b"} {
		sess := testSession(id)
		sess.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.Put(sess))
	}

	sessions, err := s.List()
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "c", sessions[0].ID)
	assert.Equal(t, "a", sessions[1].ID)
	assert.Equal(t, "b", sessions[2].ID)
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")

	require.NoError(t, NewStore(path).Put(testSession("session-1-aaaa")))

	got, err := NewStore(path).Get("session-1-aaaa")
	require.NoError(t, err)
	assert.Equal(t, "SIM-1", got.DeviceUDID)
}

func TestStore_CorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewStore(path).List()
	assert.Error(t, err)
}

// Two writers with independent Store handles on the same path must never
// lose a record: the advisory lock covers the read-modify-write window.
func TestStore_ConcurrentWritersLoseNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")

	const perWriter = 20

	var wg sync.WaitGroup
	for w := range 2 {
		store := NewStore(path)

		wg.Add(1)
		go func() {
			defer wg.Done()

			for i := range perWriter {
				err := store.Put(testSession(fmt.Sprintf("writer%d-%d", w, i)))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	sessions, err := NewStore(path).List()
	require.NoError(t, err)
	assert.Len(t, sessions, 2*perWriter)
}

func TestStore_UpdateMissing(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "sessions.json"))

	err := s.Update("nope", func(*Session) {})
	assert.ErrorIs(t, err, ErrNotFound)
}
