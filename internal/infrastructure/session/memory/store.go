// Package memory holds live wizard sessions in process. Wizard state lives
// for the session only; durable persistence is an external concern layered on
// top of the same action flow.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tevinharrell123/ai-tax-buddy/internal/core/domain"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

// entry serializes all mutations for one session, so concurrent dispatches
// against the same wizard cannot interleave reducer applications.
type entry struct {
	mu      sync.Mutex
	session domain.Session
}

func New() *Store {
	return &Store{sessions: make(map[string]*entry)}
}

func (s *Store) Create(_ context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.WrapError(domain.ErrInvalidInput, "create session", fmt.Errorf("missing session id"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[session.ID]; exists {
		return domain.WrapError(domain.ErrInvalidInput, "create session", fmt.Errorf("duplicate id %s", session.ID))
	}
	s.sessions[session.ID] = &entry{session: *session}
	return nil
}

func (s *Store) Get(_ context.Context, id string) (*domain.Session, error) {
	ent, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()
	snapshot := ent.session
	return &snapshot, nil
}

func (s *Store) Update(_ context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error) {
	ent, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()

	working := ent.session
	if err := fn(&working); err != nil {
		return nil, err
	}
	working.UpdatedAt = time.Now().UTC()
	ent.session = working

	snapshot := working
	return &snapshot, nil
}

func (s *Store) lookup(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ent, ok := s.sessions[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrSessionNotFound, "lookup session", fmt.Errorf("id=%s", id))
	}
	return ent, nil
}
