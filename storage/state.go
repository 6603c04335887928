package storage

import (
	"encoding/json"
	"errors"
	"fmt"
)

// State exposes the typed key-value surface consumed by native module state
// accessors. Values are JSON-encoded; every module namespaces its own keys so
// a single Database can hold any number of contract instances.
type State struct {
	db Database

	// Rollback journal. While at least one WithRollback scope is open every
	// write records the pre-image of its key so a failed scope can be
	// unwound. Not safe for concurrent use.
	journal []journalEntry
	depth   int
}

type journalEntry struct {
	key     []byte
	existed bool
	prev    []byte
}

// NewState wraps a Database with the typed accessor surface.
func NewState(db Database) *State {
	return &State{db: db}
}

// WithRollback runs fn and, if it returns an error, restores every key
// written through the state while fn ran. Scopes nest: an inner failure
// unwinds only the inner writes, while an outer failure unwinds writes made
// by inner scopes that had already returned successfully.
func (s *State) WithRollback(fn func() error) error {
	if _, err := s.withDB(); err != nil {
		return err
	}
	mark := len(s.journal)
	s.depth++
	err := fn()
	s.depth--
	if err != nil {
		s.revertTo(mark)
	}
	if s.depth == 0 {
		s.journal = nil
	}
	return err
}

func (s *State) record(key []byte) error {
	if s.depth == 0 {
		return nil
	}
	entry := journalEntry{key: append([]byte(nil), key...)}
	prev, err := s.db.Get(key)
	switch {
	case err == nil:
		entry.existed = true
		entry.prev = prev
	case errors.Is(err, ErrKeyNotFound):
	default:
		return err
	}
	s.journal = append(s.journal, entry)
	return nil
}

func (s *State) revertTo(mark int) {
	// Best effort: a backend that fails mid-revert cannot be restored.
	for i := len(s.journal) - 1; i >= mark; i-- {
		entry := s.journal[i]
		if entry.existed {
			_ = s.db.Put(entry.key, entry.prev)
		} else {
			_ = s.db.Delete(entry.key)
		}
	}
	s.journal = s.journal[:mark]
}

func (s *State) withDB() (Database, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage: state not initialised")
	}
	return s.db, nil
}

// KVHas reports whether the key is present.
func (s *State) KVHas(key []byte) (bool, error) {
	db, err := s.withDB()
	if err != nil {
		return false, err
	}
	return db.Has(key)
}

// KVGet decodes the stored value into out and reports whether the key was
// present. A missing key is not an error.
func (s *State) KVGet(key []byte, out interface{}) (bool, error) {
	db, err := s.withDB()
	if err != nil {
		return false, err
	}
	raw, err := db.Get(key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if out == nil {
		return true, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("storage: decode %q: %w", key, err)
	}
	return true, nil
}

// KVPut encodes value and stores it under key, overwriting any prior value.
func (s *State) KVPut(key []byte, value interface{}) error {
	db, err := s.withDB()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("storage: encode %q: %w", key, err)
	}
	if err := s.record(key); err != nil {
		return err
	}
	return db.Put(key, raw)
}

// KVDelete removes the key. Deleting an absent key is a no-op.
func (s *State) KVDelete(key []byte) error {
	db, err := s.withDB()
	if err != nil {
		return err
	}
	if err := s.record(key); err != nil {
		return err
	}
	return db.Delete(key)
}
