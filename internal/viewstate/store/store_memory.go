package store

import (
	"context"
	"sync"

	"yojanamitra/internal/viewstate"
)

// InMemory holds view state per session.
type InMemory struct {
	mu     sync.Mutex
	states map[string]viewstate.State
}

func NewInMemory() *InMemory {
	return &InMemory{states: make(map[string]viewstate.State)}
}

func (s *InMemory) Load(_ context.Context, sessionID string) (viewstate.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[sessionID]; ok {
		return st, nil
	}
	return viewstate.DefaultState(), nil
}

// Update applies fn to the session's state atomically. fn's error aborts the write.
func (s *InMemory) Update(_ context.Context, sessionID string, fn func(*viewstate.State) error) (viewstate.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[sessionID]
	if !ok {
		st = viewstate.DefaultState()
	}
	if err := fn(&st); err != nil {
		return viewstate.State{}, err
	}
	s.states[sessionID] = st
	return st, nil
}
