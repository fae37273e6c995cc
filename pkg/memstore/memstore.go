// Package memstore provides an in-memory hash store for tests, examples,
// and single-process use. Writes merge fields into existing rows the way a
// Redis HSET would, and read/write counters expose store traffic so laziness
// can be asserted in tests.
package memstore

import (
	"context"
	"sync"
)

// Store is a mutex-guarded map of rows keyed by object key.
type Store struct {
	mu     sync.Mutex
	rows   map[string]map[string]string
	reads  int
	writes int
}

// New returns an empty store.
func New() *Store {
	return &Store{rows: map[string]map[string]string{}}
}

// WriteHash merges fields into the row at key, creating it when absent.
func (s *Store) WriteHash(_ context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	row, ok := s.rows[key]
	if !ok {
		row = make(map[string]string, len(fields))
		s.rows[key] = row
	}
	for name, cell := range fields {
		row[name] = cell
	}
	return nil
}

// ReadHash returns a copy of the row at key, or an empty map when the key
// is absent.
func (s *Store) ReadHash(_ context.Context, key string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	row := s.rows[key]
	clone := make(map[string]string, len(row))
	for name, cell := range row {
		clone[name] = cell
	}
	return clone, nil
}

// Reads returns how many ReadHash calls the store has served.
func (s *Store) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// Writes returns how many WriteHash calls the store has served.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Row returns a copy of the raw row at key for assertions.
func (s *Store) Row(key string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.rows[key]
	clone := make(map[string]string, len(row))
	for name, cell := range row {
		clone[name] = cell
	}
	return clone
}
