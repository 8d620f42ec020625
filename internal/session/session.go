// Package session keeps per-user conversation history, bounded to the most
// recent messages. The zero state has no sessions; one is created lazily on
// first append.
package session

import (
	"sync"

	"venti-agent/internal/llm"
)

// MaxMessages bounds each session's history. Oldest entries are evicted first.
const MaxMessages = 20

type Store struct {
	mu       sync.RWMutex
	sessions map[string][]llm.Message
	locks    map[string]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string][]llm.Message),
		locks:    make(map[string]*sync.Mutex),
	}
}

// WithLock serializes fn against other WithLock calls for the same user id.
// A whole chat turn (read history, run agent, append) runs under this lock so
// concurrent turns for one user cannot interleave their history mutations.
func (s *Store) WithLock(userID string, fn func()) {
	s.mu.Lock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	fn()
}

func (s *Store) Get(userID string) []llm.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.sessions[userID]
	out := make([]llm.Message, len(msgs))
	copy(out, msgs)
	return out
}

func (s *Store) Append(userID string, msgs ...llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := append(s.sessions[userID], msgs...)
	if len(history) > MaxMessages {
		history = history[len(history)-MaxMessages:]
	}
	s.sessions[userID] = history
}

// Clear deletes the session if present. Idempotent.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
