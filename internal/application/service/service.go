package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"yojanamitra/internal/application/metrics"
	"yojanamitra/internal/application/models"
	"yojanamitra/internal/navigation"
	"yojanamitra/internal/notify"
	"yojanamitra/internal/selection"
	dErrors "yojanamitra/pkg/domain-errors"
	"yojanamitra/pkg/platform/sentinel"
	"yojanamitra/pkg/platform/strings"
	"yojanamitra/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,SelectionStore

var tracer = otel.Tracer("yojanamitra/application")

// Store persists applications per session.
type Store interface {
	Create(ctx context.Context, app *models.Application) error
	CreateMissing(ctx context.Context, sessionID string, apps []*models.Application) (int, error)
	ListBySession(ctx context.Context, sessionID string, statuses []models.Status) ([]*models.Application, error)
	FindByID(ctx context.Context, sessionID string, id uuid.UUID) (*models.Application, error)
	Update(ctx context.Context, sessionID string, id uuid.UUID, fn func(*models.Application) error) (*models.Application, error)
}

// SelectionStore yields the scheme chosen in the catalog and forgets it once used.
type SelectionStore interface {
	Load(ctx context.Context, sessionID string) (selection.Selection, error)
	Clear(ctx context.Context, sessionID string) error
}

// ListResult is one tracker tab with the counts for all tabs.
type ListResult struct {
	Tab          models.Tab       `json:"tab"`
	Counts       models.TabCounts `json:"counts"`
	Applications []models.View    `json:"applications"`
}

// Outcome is an application together with the message shown for the change.
type Outcome struct {
	Application  models.View         `json:"application"`
	Notification notify.Notification `json:"notification"`
	NavigateTo   navigation.Route    `json:"navigate_to,omitempty"`
}

// Service runs the application tracker.
type Service struct {
	store       Store
	selections  SelectionStore
	sink        notify.Sink
	logger      *slog.Logger
	metrics     *metrics.Metrics
	seedSamples bool
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithNotifier(sink notify.Sink) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

// WithSampleSeeding gives sessions without applications the demonstration set.
func WithSampleSeeding(enabled bool) Option {
	return func(s *Service) {
		s.seedSamples = enabled
	}
}

func New(store Store, selections SelectionStore, opts ...Option) *Service {
	s := &Service{
		store:      store,
		selections: selections,
		sink:       notify.Discard{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit files an application for the session's selected scheme and clears
// the selection.
func (s *Service) Submit(ctx context.Context, sessionID string) (*Outcome, error) {
	ctx, span := tracer.Start(ctx, "application.Submit")
	defer span.End()

	sel, err := s.selections.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementSubmission("no_selection")
			return nil, dErrors.New(dErrors.CodeConflict, "no scheme selected; choose a scheme before applying")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load selected scheme")
	}
	span.SetAttributes(attribute.Int("scheme.id", sel.SchemeID))

	active, err := s.store.ListBySession(ctx, sessionID, models.TabProcessing.Statuses())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	for _, a := range active {
		if a.SchemeID == sel.SchemeID {
			s.metrics.IncrementSubmission("duplicate")
			return nil, dErrors.New(dErrors.CodeConflict,
				fmt.Sprintf("an application for %s is already in progress (reference %s)", a.SchemeName, a.Reference))
		}
	}

	app, err := models.NewApplication(sessionID, sel.SchemeID, sel.SchemeName, sel.Benefits,
		strings.NormalizeList(sel.Documents), requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, app); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "application reference already in use; please retry")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save application")
	}

	if err := s.selections.Clear(ctx, sessionID); err != nil {
		s.logger.WarnContext(ctx, "failed to clear selected scheme",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}

	n := notify.Info("Application submitted", fmt.Sprintf("Your application for %s has been submitted. Reference: %s", app.SchemeName, app.Reference))
	s.sink.Notify(ctx, sessionID, n)
	s.metrics.IncrementSubmission("submitted")
	s.logger.InfoContext(ctx, "application submitted",
		"request_id", requestcontext.RequestID(ctx),
		"session_id", sessionID,
		"application_id", app.ID,
		"scheme_id", app.SchemeID,
	)
	return &Outcome{Application: models.Render(app), Notification: n, NavigateTo: navigation.RouteApplications}, nil
}

// List returns the applications on a tab, seeding samples for an empty
// session when enabled.
func (s *Service) List(ctx context.Context, sessionID string, tab models.Tab) (*ListResult, error) {
	ctx, span := tracer.Start(ctx, "application.List")
	defer span.End()

	apps, err := s.store.ListBySession(ctx, sessionID, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	if len(apps) == 0 && s.seedSamples {
		if apps, err = s.seed(ctx, sessionID); err != nil {
			return nil, err
		}
	}

	views := make([]models.View, 0, len(apps))
	for _, a := range apps {
		if tab.Matches(a.Status) {
			views = append(views, models.Render(a))
		}
	}
	span.SetAttributes(attribute.Int("application.count", len(apps)))
	return &ListResult{Tab: tab, Counts: models.Count(apps), Applications: views}, nil
}

func (s *Service) seed(ctx context.Context, sessionID string) ([]*models.Application, error) {
	added, err := s.store.CreateMissing(ctx, sessionID, models.SeedSamples(sessionID))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to seed sample applications")
	}
	if added > 0 {
		s.metrics.IncrementSeeded()
		s.logger.InfoContext(ctx, "sample applications seeded",
			"request_id", requestcontext.RequestID(ctx),
			"session_id", sessionID,
			"count", added,
		)
	}
	apps, err := s.store.ListBySession(ctx, sessionID, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

// Counts returns the tracker's summary figures without rendering.
func (s *Service) Counts(ctx context.Context, sessionID string) (models.TabCounts, error) {
	apps, err := s.store.ListBySession(ctx, sessionID, nil)
	if err != nil {
		return models.TabCounts{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return models.Count(apps), nil
}

// Get returns one application.
func (s *Service) Get(ctx context.Context, sessionID string, id uuid.UUID) (*models.View, error) {
	app, err := s.store.FindByID(ctx, sessionID, id)
	if err != nil {
		return nil, translateFindErr(err, id)
	}
	v := models.Render(app)
	return &v, nil
}

// Advance records a review step on an application.
func (s *Service) Advance(ctx context.Context, sessionID string, id uuid.UUID, t models.Transition) (*Outcome, error) {
	ctx, span := tracer.Start(ctx, "application.Advance")
	defer span.End()
	span.SetAttributes(attribute.String("application.to", string(t.To)))

	now := requestcontext.Now(ctx)
	app, err := s.store.Update(ctx, sessionID, id, func(a *models.Application) error {
		if err := a.Apply(t, now); err != nil {
			return err
		}
		return a.Validate()
	})
	if err != nil {
		if dErrors.Is(err) {
			return nil, err
		}
		return nil, translateFindErr(err, id)
	}

	label := models.StatusIndicator(app.Status).Label
	n := notify.Info("Application updated", fmt.Sprintf("%s is now %s", app.SchemeName, label))
	if app.Status == models.StatusRejected {
		n = notify.Destructive("Application rejected", fmt.Sprintf("%s: %s", app.SchemeName, app.RejectionReason))
	}
	s.sink.Notify(ctx, sessionID, n)
	s.metrics.IncrementTransition(string(app.Status))
	s.logger.InfoContext(ctx, "application advanced",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", id,
		"status", app.Status,
		"progress", app.Progress,
	)
	return &Outcome{Application: models.Render(app), Notification: n}, nil
}

// Retry, Escalate and DownloadCertificate are placeholders: they confirm the
// application exists and report that the feature is not yet available.

func (s *Service) Retry(ctx context.Context, sessionID string, id uuid.UUID) (notify.Notification, error) {
	return s.comingSoon(ctx, sessionID, id, "Retry Application")
}

func (s *Service) Escalate(ctx context.Context, sessionID string, id uuid.UUID) (notify.Notification, error) {
	return s.comingSoon(ctx, sessionID, id, "Escalation Initiated")
}

func (s *Service) DownloadCertificate(ctx context.Context, sessionID string, id uuid.UUID) (notify.Notification, error) {
	return s.comingSoon(ctx, sessionID, id, "Certificate Download")
}

func (s *Service) comingSoon(ctx context.Context, sessionID string, id uuid.UUID, title string) (notify.Notification, error) {
	if _, err := s.store.FindByID(ctx, sessionID, id); err != nil {
		return notify.Notification{}, translateFindErr(err, id)
	}
	n := notify.ComingSoon(title)
	s.sink.Notify(ctx, sessionID, n)
	return n, nil
}

func translateFindErr(err error, id uuid.UUID) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("application %s not found", id))
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load application")
}
