package repository

import (
	"atm-simulator/internal/utils"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type Store struct {
	mu      sync.RWMutex
	data    map[string]string
	backend Backend
}

func NewStore(backend Backend) *Store {
	return &Store{
		data:    make(map[string]string),
		backend: backend,
	}
}

func (s *Store) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[key]
}

// Set changes memory only; call Save to persist.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[key]
	return ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Keys returns the sorted keys ending with "_"+field, or all keys when field is empty.
func (s *Store) Keys(field string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if field == "" || strings.HasSuffix(k, "_"+field) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyMap(s.data)
}

func (s *Store) Load(ctx context.Context) error {
	start := time.Now()
	data, err := s.backend.Load(ctx)
	if err != nil {
		utils.LogError("Store", "load failed", err)
		return fmt.Errorf("%w: load from %s: %v", ErrPersist, s.backend.Name(), err)
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()

	utils.LogDB("load", fmt.Sprintf("%d keys from %s in %v", len(data), s.backend.Name(), time.Since(start)))
	return nil
}

func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	data := copyMap(s.data)
	s.mu.RUnlock()
	return s.save(ctx, data)
}

func (s *Store) save(ctx context.Context, data map[string]string) error {
	start := time.Now()
	if err := s.backend.Save(ctx, data); err != nil {
		utils.LogError("Store", "save failed", err)
		return fmt.Errorf("%w: save to %s: %v", ErrPersist, s.backend.Name(), err)
	}
	utils.LogDB("save", fmt.Sprintf("%d keys to %s in %v", len(data), s.backend.Name(), time.Since(start)))
	return nil
}

// Update runs fn against a staged view of the store. When fn succeeds and
// staged something, the merged snapshot is saved and only then becomes the
// in-memory state. An error from fn or from the save leaves memory untouched.
// fn must use tx, not the Store, for reads.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{base: s.data, staged: make(map[string]string)}
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.staged) == 0 {
		return nil
	}

	merged := copyMap(s.data)
	for k, v := range tx.staged {
		merged[k] = v
	}
	if err := s.save(ctx, merged); err != nil {
		return err
	}
	s.data = merged
	return nil
}

type Tx struct {
	base   map[string]string
	staged map[string]string
}

func (tx *Tx) Get(key string) string {
	if v, ok := tx.staged[key]; ok {
		return v
	}
	return tx.base[key]
}

func (tx *Tx) Has(key string) bool {
	if _, ok := tx.staged[key]; ok {
		return true
	}
	_, ok := tx.base[key]
	return ok
}

func (tx *Tx) Set(key, value string) {
	tx.staged[key] = value
}

func (tx *Tx) Keys(field string) []string {
	seen := make(map[string]struct{}, len(tx.base)+len(tx.staged))
	keys := make([]string, 0, len(tx.base)+len(tx.staged))
	for _, m := range []map[string]string{tx.base, tx.staged} {
		for k := range m {
			if _, dup := seen[k]; dup {
				continue
			}
			if field == "" || strings.HasSuffix(k, "_"+field) {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

func copyMap(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
