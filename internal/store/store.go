// Package store implements the persistent key-value collaborator used for
// daily caches, notification dedup records, and user preferences.
//
// The durable backend is a bbolt database. When the database cannot be
// opened the caller can fall back to an in-memory store: everything keeps
// working for the session, but reminder dedup state is lost on restart and
// triggers may fire again after a reload. That is an accepted degradation,
// not an error.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Well-known keys used across the application.
const (
	KeyCacheDate        = "prayerDataCacheDate"
	KeyMultiDayCache    = "multiDayPrayerCache"
	KeyShownToday       = "notificationsShownToday"
	KeyLastCheckDate    = "lastNotificationCheckDate"
	KeyNotificationMode = "notificationMode"
)

// bucketName is the single bucket holding all application state.
var bucketName = []byte("state")

// Store is a string key-value store backed by bbolt, or by a process-local
// map when opened with OpenMemory.
type Store struct {
	db *bolt.DB

	mu  sync.RWMutex
	mem map[string]string
}

// Open opens (creating if needed) the bbolt database at path. The file
// lock is acquired with a timeout so a second instance (the statusline
// re-running while watch holds the database) errors out promptly and can
// fall back to OpenMemory instead of blocking forever.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create state directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("cannot open state database %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create state bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// OpenMemory returns a store that keeps everything in memory. Used as the
// fallback when the database cannot be opened, and in tests.
func OpenMemory() *Store {
	return &Store{mem: make(map[string]string)}
}

// Persistent reports whether values survive a restart.
func (s *Store) Persistent() bool {
	return s.db != nil
}

// Get returns the value for key. ok is false when the key is absent.
func (s *Store) Get(key string) (value string, ok bool) {
	if s.db == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		value, ok = s.mem[key]
		return value, ok
	}

	_ = s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get([]byte(key)); v != nil {
			value = string(v)
			ok = true
		}
		return nil
	})
	return value, ok
}

// Set stores value under key.
func (s *Store) Set(key, value string) error {
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.mem[key] = value
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("cannot write key %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.mem, key)
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("cannot delete key %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying database. Safe on in-memory stores.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DefaultPath returns the default state database location,
// ~/.local/state/salah-watch/state.db (respecting $XDG_STATE_HOME).
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "salah-watch", "state.db"), nil
}
