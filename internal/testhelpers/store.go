package testhelpers

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var ErrStoreDown = errors.New("image store unavailable")

// MemoryStore is an in-memory image store. FailOnPut makes the nth Put (1-based) fail.
type MemoryStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	puts      int
	FailOnPut int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.FailOnPut > 0 && s.puts == s.FailOnPut {
		return "", ErrStoreDown
	}
	s.objects[key] = append([]byte(nil), data...)
	return "/media/" + key, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Keys lists stored keys in order.
func (s *MemoryStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
