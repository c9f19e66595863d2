// Package memory provides an in-process StateStore, for tests and for
// single-process bots that can afford to lose state on restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/ports"
)

// Store keeps records in a mutex-guarded map. Records are cloned on the way
// in and out so callers never share memory with the store.
type Store struct {
	mu      sync.RWMutex
	records map[string]domain.StateRecord
}

var _ ports.StateStore = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{records: make(map[string]domain.StateRecord)}
}

// Load returns the record for key, or domain.ErrRecordNotFound.
func (s *Store) Load(_ context.Context, key string) (domain.StateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrRecordNotFound, key)
	}
	return record.Clone(), nil
}

// Save stores the record under key, replacing any previous record.
func (s *Store) Save(_ context.Context, key string, record domain.StateRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = record.Clone()
	return nil
}

// Delete removes the record for key. Deleting a missing key is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// List returns all stored keys in sorted order.
func (s *Store) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.records))
	for key := range s.records {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
