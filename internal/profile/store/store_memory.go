package store

import (
	"context"
	"sync"

	"yojanamitra/internal/profile/models"
	"yojanamitra/pkg/platform/sentinel"
)

// InMemory keeps profiles per browsing session for the life of the process.
type InMemory struct {
	mu       sync.RWMutex
	profiles map[string]models.Record
}

func NewInMemory() *InMemory {
	return &InMemory{profiles: make(map[string]models.Record)}
}

func (s *InMemory) Load(_ context.Context, sessionID string) (models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.profiles[sessionID]
	if !ok {
		return models.Defaults(), sentinel.ErrNotFound
	}
	return r, nil
}

func (s *InMemory) Save(_ context.Context, sessionID string, r models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[sessionID] = r
	return nil
}
