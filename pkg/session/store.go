package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gofrs/flock"
	"github.com/google/renameio/v2"
)

// Store persists sessions in a single JSON file keyed by session id.
//
// Independent CLI invocations are separate OS processes that may mutate the
// store concurrently, so every read-modify-write runs under an advisory file
// lock and the payload is replaced atomically (write to temp, rename). The
// lock is held only across the store operation itself, never across a device
// control call.
type Store struct {
	path string
	lock *flock.Flock
}

// NewStore creates a Store backed by the file at path. The file and its
// directory are created lazily on first write.
func NewStore(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the store's file location.
func (s *Store) Path() string { return s.path }

// fileFormat is the JSON structure written to disk.
type fileFormat struct {
	Sessions map[string]Session `json:"sessions"`
}

// List returns all sessions sorted by creation time.
func (s *Store) List() ([]Session, error) {
	if err := s.rlock(); err != nil {
		return nil, err
	}
	defer s.unlock()

	sessions, err := s.read()
	if err != nil {
		return nil, err
	}

	out := make([]Session, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sess)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}

		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

// Get returns the session with the given id, or ErrNotFound.
func (s *Store) Get(id string) (Session, error) {
	if err := s.rlock(); err != nil {
		return Session{}, err
	}
	defer s.unlock()

	sessions, err := s.read()
	if err != nil {
		return Session{}, err
	}

	sess, ok := sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return sess, nil
}

// Put inserts or replaces a session record.
func (s *Store) Put(sess Session) error {
	return s.mutate(func(sessions map[string]Session) error {
		sessions[sess.ID] = sess
		return nil
	})
}

// Update applies fn to the stored session under the write lock. Returns
// ErrNotFound when the session does not exist.
func (s *Store) Update(id string, fn func(*Session)) error {
	return s.mutate(func(sessions map[string]Session) error {
		sess, ok := sessions[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		fn(&sess)
		sessions[id] = sess

		return nil
	})
}

// Delete removes a session record. Reports whether it existed; deleting an
// absent record is not an error.
func (s *Store) Delete(id string) (bool, error) {
	existed := false

	err := s.mutate(func(sessions map[string]Session) error {
		_, existed = sessions[id]
		delete(sessions, id)

		return nil
	})

	return existed, err
}

// mutate runs one locked read-modify-write cycle.
func (s *Store) mutate(fn func(map[string]Session) error) error {
	if err := s.wlock(); err != nil {
		return err
	}
	defer s.unlock()

	sessions, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(sessions); err != nil {
		return err
	}

	return s.write(sessions)
}

// read loads the store file. A missing or empty file is an empty store.
// Callers must hold the lock.
func (s *Store) read() (map[string]Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]Session{}, nil
		}

		return nil, fmt.Errorf("session store: read: %w", err)
	}

	if len(data) == 0 {
		return map[string]Session{}, nil
	}

	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("session store: parse %s: %w", s.path, err)
	}

	if ff.Sessions == nil {
		ff.Sessions = map[string]Session{}
	}

	return ff.Sessions, nil
}

// write atomically replaces the store file. Callers must hold the lock.
func (s *Store) write(sessions map[string]Session) error {
	data, err := json.MarshalIndent(fileFormat{Sessions: sessions}, "", "  ")
	if err != nil {
		return fmt.Errorf("session store: marshal: %w", err)
	}

	if err := renameio.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("session store: write: %w", err)
	}

	return nil
}

func (s *Store) wlock() error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("session store: lock: %w", err)
	}

	return nil
}

func (s *Store) rlock() error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	if err := s.lock.RLock(); err != nil {
		return fmt.Errorf("session store: lock: %w", err)
	}

	return nil
}

func (s *Store) unlock() {
	_ = s.lock.Unlock()
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("session store: create dir: %w", err)
	}

	return nil
}
