package selection

import (
	"context"
	"sync"

	"yojanamitra/pkg/platform/sentinel"
)

// InMemory keeps at most one selection per session; a new selection replaces the old.
type InMemory struct {
	mu         sync.RWMutex
	selections map[string]Selection
}

func NewInMemory() *InMemory {
	return &InMemory{selections: make(map[string]Selection)}
}

func (s *InMemory) Save(_ context.Context, sessionID string, sel Selection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel.Documents = append([]string(nil), sel.Documents...)
	s.selections[sessionID] = sel
	return nil
}

func (s *InMemory) Load(_ context.Context, sessionID string) (Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sel, ok := s.selections[sessionID]
	if !ok {
		return Selection{}, sentinel.ErrNotFound
	}
	sel.Documents = append([]string(nil), sel.Documents...)
	return sel, nil
}

func (s *InMemory) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selections, sessionID)
	return nil
}
