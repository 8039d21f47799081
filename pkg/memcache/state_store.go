// Package mem keeps short-lived single-use values in process memory.
package mem

import (
	"sync"
	"time"

	"linkbio/pkg/clock"
)

type StateStore interface {
	// Put remembers key with an optional payload until ttl elapses.
	Put(key, payload string, ttl time.Duration)

	// Consume returns the payload and removes key. ok is false when the key
	// is unknown or expired.
	Consume(key string) (payload string, ok bool)

	Len() int
}

type entry struct {
	payload   string
	expiresAt time.Time
}

type TTLStore struct {
	mu    sync.Mutex
	clock clock.Clock
	data  map[string]entry
}

func NewTTLStore(c clock.Clock) *TTLStore {
	if c == nil {
		c = clock.SystemClock{}
	}
	return &TTLStore{
		clock: c,
		data:  make(map[string]entry),
	}
}

func (s *TTLStore) Put(key, payload string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.evictLocked(now)
	s.data[key] = entry{payload: payload, expiresAt: now.Add(ttl)}
}

func (s *TTLStore) Consume(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return "", false
	}
	delete(s.data, key)
	if !s.clock.Now().Before(e.expiresAt) {
		return "", false
	}
	return e.payload, true
}

func (s *TTLStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// evictLocked drops expired entries so abandoned states do not accumulate.
func (s *TTLStore) evictLocked(now time.Time) {
	for k, e := range s.data {
		if !now.Before(e.expiresAt) {
			delete(s.data, k)
		}
	}
}
