package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. State is lost on restart and
// never evicted; suitable for single-instance deployments and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

func (s *MemoryStore) Load(_ context.Context, id string) (Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok, nil
}

func (s *MemoryStore) Init(_ context.Context, id string) (Session, error) {
	now := time.Now().UTC()
	sess := Session{
		TurnCount:   0,
		CreatedAt:   now,
		LastUpdated: now,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
	return sess, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, sess Session) error {
	sess.LastUpdated = time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
	return nil
}
