package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/himand/newsgenius/session"
)

type entry struct {
	state     session.State
	expiresAt time.Time
}

// Store keeps sessions in process memory. The default for single-instance
// deployments.
type Store struct {
	sessions map[string]*entry
	mu       sync.RWMutex
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*entry)}
}

func (s *Store) Create(ctx context.Context, state session.State, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.sessions[id] = &entry{state: state, expiresAt: time.Now().Add(ttl)}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (session.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok || time.Now().After(e.expiresAt) {
		return session.State{}, session.ErrNotFound
	}
	return e.state, nil
}

func (s *Store) Save(ctx context.Context, id string, state session.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok || time.Now().After(e.expiresAt) {
		return session.ErrNotFound
	}
	e.state = state
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
