package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"yojanamitra/internal/application/models"
	"yojanamitra/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) newApp(sessionID, scheme string) *models.Application {
	app, err := models.NewApplication(sessionID, 1, scheme, "₹6,000 per year", []string{"Aadhaar"}, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	return app
}

func (s *InMemoryStoreSuite) TestCreateAndFind() {
	app := s.newApp("a", "PM-KISAN Samman Nidhi")
	s.Require().NoError(s.store.Create(s.ctx, app))

	got, err := s.store.FindByID(s.ctx, "a", app.ID)
	s.Require().NoError(err)
	s.Equal(app, got)

	got.Documents[0] = "changed"
	again, err := s.store.FindByID(s.ctx, "a", app.ID)
	s.Require().NoError(err)
	s.Equal("Aadhaar", again.Documents[0], "returned records are copies")

	_, err = s.store.FindByID(s.ctx, "b", app.ID)
	s.ErrorIs(err, sentinel.ErrNotFound, "sessions do not see each other's applications")

	s.ErrorIs(s.store.Create(s.ctx, app), sentinel.ErrConflict)
}

func (s *InMemoryStoreSuite) TestListFiltersAndKeepsOrder() {
	first := s.newApp("a", "PM-KISAN Samman Nidhi")
	second := s.newApp("a", "Ayushman Bharat - PMJAY")
	second.Status, second.Progress = models.StatusApproved, 100
	s.Require().NoError(s.store.Create(s.ctx, first))
	s.Require().NoError(s.store.Create(s.ctx, second))

	all, err := s.store.ListBySession(s.ctx, "a", nil)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(first.ID, all[0].ID)
	s.Equal(second.ID, all[1].ID)

	approved, err := s.store.ListBySession(s.ctx, "a", []models.Status{models.StatusApproved})
	s.Require().NoError(err)
	s.Require().Len(approved, 1)
	s.Equal(second.ID, approved[0].ID)

	none, err := s.store.ListBySession(s.ctx, "unknown", nil)
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)
}

func (s *InMemoryStoreSuite) TestCreateMissingIsIdempotent() {
	added, err := s.store.CreateMissing(s.ctx, "a", models.SeedSamples("a"))
	s.Require().NoError(err)
	s.Equal(3, added)

	added, err = s.store.CreateMissing(s.ctx, "a", models.SeedSamples("a"))
	s.Require().NoError(err)
	s.Zero(added)

	all, err := s.store.ListBySession(s.ctx, "a", nil)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *InMemoryStoreSuite) TestUpdate() {
	app := s.newApp("a", "PM-KISAN Samman Nidhi")
	s.Require().NoError(s.store.Create(s.ctx, app))
	now := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	s.Run("applies the change", func() {
		got, err := s.store.Update(s.ctx, "a", app.ID, func(a *models.Application) error {
			return a.Apply(models.Transition{To: models.StatusProcessing}, now)
		})
		s.Require().NoError(err)
		s.Equal(models.StatusProcessing, got.Status)
		s.Len(got.Timeline, 2)
	})

	s.Run("failed change is discarded", func() {
		boom := errors.New("boom")
		_, err := s.store.Update(s.ctx, "a", app.ID, func(a *models.Application) error {
			a.Progress = 99
			return boom
		})
		s.ErrorIs(err, boom)

		got, err := s.store.FindByID(s.ctx, "a", app.ID)
		s.Require().NoError(err)
		s.Equal(models.SubmittedProgress, got.Progress)
	})

	s.Run("unknown id", func() {
		_, err := s.store.Update(s.ctx, "a", uuid.New(), func(*models.Application) error { return nil })
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}
