// Package memory keeps values in process memory. Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rezkam/focusboard/internal/storage"
)

type record struct {
	value   []byte
	updated time.Time
}

// Store is an in-memory implementation of storage.Bucket.
type Store struct {
	mu   sync.RWMutex
	data map[string]record
}

var _ storage.Bucket = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: make(map[string]record)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrKeyNotFound, key)
	}
	return slices.Clone(r.value), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = record{value: slices.Clone(value), updated: time.Now().UTC()} //nolint:clockonly // entry metadata
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

func (s *Store) List(_ context.Context, prefix string) ([]storage.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []storage.Entry
	for key, r := range s.data {
		if strings.HasPrefix(key, prefix) {
			entries = append(entries, storage.Entry{Key: key, Size: int64(len(r.value)), Updated: r.updated})
		}
	}
	slices.SortFunc(entries, func(a, b storage.Entry) int { return strings.Compare(a.Key, b.Key) })
	return entries, nil
}
