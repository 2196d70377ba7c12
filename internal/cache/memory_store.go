package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is the default in-process Store.
type MemoryStore struct {
	mu          sync.RWMutex
	entries     map[string]*Entry
	generations map[string]string
	now         func() time.Time

	stop chan struct{}
	once sync.Once
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:     make(map[string]*Entry),
		generations: make(map[string]string),
		now:         time.Now,
		stop:        make(chan struct{}),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if e.Expired(s.now()) {
		s.mu.Lock()
		if cur, ok := s.entries[key]; ok && cur == e {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	cp := *e
	return &cp, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, e *Entry) error {
	cp := *e
	s.mu.Lock()
	s.entries[key] = &cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Generation(_ context.Context, tag string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generations[tag], nil
}

// Bump also drops the tag's entries right away so they do not linger until
// expiry.
func (s *MemoryStore) Bump(_ context.Context, tag string) (string, error) {
	gen := uuid.NewString()
	s.mu.Lock()
	s.generations[tag] = gen
	for k, e := range s.entries {
		if e.Tag == tag {
			delete(s.entries, k)
		}
	}
	s.mu.Unlock()
	return gen, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// StartSweeper removes expired entries every interval until Close.
func (s *MemoryStore) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-t.C:
				s.sweep()
			}
		}
	}()
}

func (s *MemoryStore) sweep() {
	now := s.now()
	s.mu.Lock()
	for k, e := range s.entries {
		if e.Expired(now) {
			delete(s.entries, k)
		}
	}
	s.mu.Unlock()
}

func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}
