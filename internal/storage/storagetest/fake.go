// Package storagetest provides an in-memory storage.Provider with failure
// injection for tests.
package storagetest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/julianstephens/steplog/internal/storage"
)

// ErrInjected is returned by operations configured to fail.
var ErrInjected = errors.New("injected store failure")

type Store struct {
	mu     sync.Mutex
	values map[string]string

	// FailGet, FailSet and FailDelete make the matching operation fail for
	// keys with one of the listed prefixes. An empty string matches every key.
	FailGet    []string
	FailSet    []string
	FailDelete []string
	FailKeys   bool

	// BeforeGet, when set, runs at the start of every Get.
	BeforeGet func(key string)

	Sets int
}

var _ storage.Provider = (*Store)(nil)

func New() *Store {
	return &Store{values: make(map[string]string)}
}

func matches(prefixes []string, key string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

func (s *Store) Init() error           { return nil }
func (s *Store) Load() error           { return nil }
func (s *Store) Close() error          { return nil }
func (s *Store) GetConfigPath() string { return "memory" }

// Get and Set fail with the context's error once it is done, like the SQL
// backends do.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if s.BeforeGet != nil {
		s.BeforeGet(key)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if matches(s.FailGet, key) {
		return "", ErrInjected
	}
	v, ok := s.values[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if matches(s.FailSet, key) {
		return ErrInjected
	}
	s.values[key] = value
	s.Sets++
	return nil
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailKeys {
		return nil, ErrInjected
	}
	var keys []string
	for k := range s.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if matches(s.FailDelete, key) {
		return ErrInjected
	}
	delete(s.values, key)
	return nil
}

// Put seeds a raw value, bypassing failure injection.
func (s *Store) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Raw returns the stored value, bypassing failure injection.
func (s *Store) Raw(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}
