package session

import (
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"

	"github.com/tobiusaolo/Cariya-wallet/models"
)

// Record is the composite session blob written to durable storage. Persisting
// token, user id and user info as one record keeps the three fields atomic:
// a restart can never observe a half-written session.
type Record struct {
	Token    string          `json:"token"`
	UserID   string          `json:"user_id"`
	UserInfo models.UserInfo `json:"user_info,omitempty"`
}

// Empty reports whether the record carries no authenticated identity.
func (r Record) Empty() bool {
	return r.Token == "" || r.UserID == ""
}

// Store persists the session record across process restarts.
type Store interface {
	Load() (Record, error)
	Save(Record) error
	Clear() error
	Close() error
}

var (
	sessionBucket = []byte("session")
	sessionKey    = []byte("current")
)

// BoltStore keeps the session record in a local bolt database file.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) the session database at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening session db %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating session bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Load reads the persisted record. A missing record is an empty Record, not
// an error.
func (s *BoltStore) Load() (Record, error) {
	var rec Record
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(sessionBucket).Get(sessionKey)
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("parsing session record: %w", err)
		}
		return nil
	})
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Save writes the record in a single transaction.
func (s *BoltStore) Save(rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding session record: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Put(sessionKey, raw)
	})
}

// Clear deletes the persisted record. Clearing an empty store is a no-op.
func (s *BoltStore) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete(sessionKey)
	})
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// MemoryStore is an in-process Store for tests and the sandbox.
type MemoryStore struct {
	rec     Record
	has     bool
	LoadErr error
	SaveErr error
}

func (m *MemoryStore) Load() (Record, error) {
	if m.LoadErr != nil {
		return Record{}, m.LoadErr
	}
	if !m.has {
		return Record{}, nil
	}
	return m.rec, nil
}

func (m *MemoryStore) Save(rec Record) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.rec = rec
	m.has = true
	return nil
}

func (m *MemoryStore) Clear() error {
	m.rec = Record{}
	m.has = false
	return nil
}

func (m *MemoryStore) Close() error { return nil }
