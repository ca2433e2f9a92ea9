// Package session keeps per-session conversation transcripts in memory so
// clients can replay what an agent saw and said. The store is bounded by an
// LRU policy; least recently touched sessions are evicted once capacity is
// reached.
package session

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity bounds the number of live sessions when the caller does
// not configure one.
const DefaultCapacity = 256

// Message is one transcript entry.
type Message struct {
	Role      string    `json:"role"`
	Content   any       `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type transcript struct {
	mu       sync.Mutex
	messages []Message
}

// Store is a thread-safe, LRU-bounded session transcript store.
type Store struct {
	cache *lru.Cache[string, *transcript]
}

// NewStore creates a store holding at most capacity sessions. A non-positive
// capacity falls back to DefaultCapacity.
func NewStore(capacity int) (*Store, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	cache, err := lru.New[string, *transcript](capacity)
	if err != nil {
		return nil, err
	}
	return &Store{cache: cache}, nil
}

// Append records a message on the session, creating the transcript on first
// use.
func (s *Store) Append(sessionID string, msg Message) {
	if sessionID == "" {
		return
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	tr, ok := s.cache.Get(sessionID)
	if !ok {
		tr = &transcript{}
		// Another goroutine may have raced the insert; keep whichever won.
		if prev, existed, _ := s.cache.PeekOrAdd(sessionID, tr); existed {
			tr = prev
		}
	}

	tr.mu.Lock()
	tr.messages = append(tr.messages, msg)
	tr.mu.Unlock()
}

// Messages returns up to limit messages for the session (all of them when
// limit <= 0) and whether the session exists.
func (s *Store) Messages(sessionID string, limit int) ([]Message, bool) {
	tr, ok := s.cache.Get(sessionID)
	if !ok {
		return nil, false
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	msgs := tr.messages
	if limit > 0 && limit < len(msgs) {
		msgs = msgs[:limit]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, true
}

// Clear removes the session transcript, reporting whether it existed.
func (s *Store) Clear(sessionID string) bool {
	return s.cache.Remove(sessionID)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.cache.Len()
}
