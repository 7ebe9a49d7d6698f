package settings

import (
	"context"
	"sync"

	"yojanamitra/pkg/platform/sentinel"
)

type InMemory struct {
	mu       sync.RWMutex
	settings map[string]Settings
}

func NewInMemory() *InMemory {
	return &InMemory{settings: make(map[string]Settings)}
}

func (s *InMemory) Load(_ context.Context, sessionID string) (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.settings[sessionID]
	if !ok {
		return Defaults(), sentinel.ErrNotFound
	}
	return v, nil
}

func (s *InMemory) Save(_ context.Context, sessionID string, v Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[sessionID] = v
	return nil
}
