package store

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"yojanamitra/internal/application/models"
	"yojanamitra/pkg/platform/sentinel"
)

// InMemory keeps applications per session in submission order.
type InMemory struct {
	mu       sync.RWMutex
	sessions map[string][]*models.Application
}

func NewInMemory() *InMemory {
	return &InMemory{sessions: make(map[string][]*models.Application)}
}

func (s *InMemory) Create(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(app.SessionID, app.ID, app.Reference) >= 0 {
		return sentinel.ErrConflict
	}
	s.sessions[app.SessionID] = append(s.sessions[app.SessionID], app.Clone())
	return nil
}

// CreateMissing inserts the applications whose reference the session does not
// hold yet and returns how many were added.
func (s *InMemory) CreateMissing(_ context.Context, sessionID string, apps []*models.Application) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, app := range apps {
		if s.indexOf(sessionID, app.ID, app.Reference) >= 0 {
			continue
		}
		c := app.Clone()
		c.SessionID = sessionID
		s.sessions[sessionID] = append(s.sessions[sessionID], c)
		added++
	}
	return added, nil
}

func (s *InMemory) ListBySession(_ context.Context, sessionID string, statuses []models.Status) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Application, 0, len(s.sessions[sessionID]))
	for _, app := range s.sessions[sessionID] {
		if len(statuses) > 0 && !slices.Contains(statuses, app.Status) {
			continue
		}
		out = append(out, app.Clone())
	}
	return out, nil
}

func (s *InMemory) FindByID(_ context.Context, sessionID string, id uuid.UUID) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(sessionID, id, "")
	if i < 0 {
		return nil, sentinel.ErrNotFound
	}
	return s.sessions[sessionID][i].Clone(), nil
}

// Update applies fn to a copy and stores it only when fn succeeds.
func (s *InMemory) Update(_ context.Context, sessionID string, id uuid.UUID, fn func(*models.Application) error) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(sessionID, id, "")
	if i < 0 {
		return nil, sentinel.ErrNotFound
	}
	working := s.sessions[sessionID][i].Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	s.sessions[sessionID][i] = working
	return working.Clone(), nil
}

func (s *InMemory) indexOf(sessionID string, id uuid.UUID, reference string) int {
	for i, app := range s.sessions[sessionID] {
		if app.ID == id || (reference != "" && app.Reference == reference) {
			return i
		}
	}
	return -1
}
