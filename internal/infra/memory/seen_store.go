package memory

import (
	"context"
	"strings"
	"sync"
	"time"
)

// SeenStore remembers recently served question texts per topic so the
// generator can be told to avoid repeats on restart. Entries expire after the
// configured TTL; nothing here is match state.
type SeenStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu      sync.Mutex
	entries map[string][]seenEntry
}

type seenEntry struct {
	text      string
	expiresAt time.Time
}

func NewSeenStore(ttl time.Duration) *SeenStore {
	return NewSeenStoreWithClock(ttl, time.Now)
}

// NewSeenStoreWithClock allows deterministic expiry in tests.
func NewSeenStoreWithClock(ttl time.Duration, clock func() time.Time) *SeenStore {
	return &SeenStore{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string][]seenEntry),
	}
}

// Recent returns the unexpired question texts recorded for a topic.
func (s *SeenStore) Recent(_ context.Context, topic string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeTopic(topic)
	live := s.pruneLocked(key)
	texts := make([]string, 0, len(live))
	for _, entry := range live {
		texts = append(texts, entry.text)
	}
	return texts, nil
}

// Record stores question texts for a topic with the configured TTL.
func (s *SeenStore) Record(_ context.Context, topic string, texts []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeTopic(topic)
	live := s.pruneLocked(key)
	expiresAt := s.clock().Add(s.ttl)
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		live = append(live, seenEntry{text: text, expiresAt: expiresAt})
	}
	s.entries[key] = live
	return nil
}

func (s *SeenStore) pruneLocked(key string) []seenEntry {
	now := s.clock()
	live := s.entries[key][:0]
	for _, entry := range s.entries[key] {
		if entry.expiresAt.After(now) {
			live = append(live, entry)
		}
	}
	if len(live) == 0 {
		delete(s.entries, key)
		return nil
	}
	s.entries[key] = live
	return live
}
