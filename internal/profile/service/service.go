package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"yojanamitra/internal/navigation"
	"yojanamitra/internal/notify"
	"yojanamitra/internal/profile/metrics"
	"yojanamitra/internal/profile/models"
	dErrors "yojanamitra/pkg/domain-errors"
	"yojanamitra/pkg/platform/sentinel"
	"yojanamitra/pkg/requestcontext"
)

var tracer = otel.Tracer("yojanamitra/profile")

// Store persists one profile per browsing session.
type Store interface {
	Load(ctx context.Context, sessionID string) (models.Record, error)
	Save(ctx context.Context, sessionID string, r models.Record) error
}

// View is a profile together with its derived completion.
type View struct {
	Record     models.Record `json:"profile"`
	Completion int           `json:"completion"`
	Missing    []string      `json:"missing_fields"`
	Exists     bool          `json:"exists"`
}

// Outcome is the result of a profile write: the new view, the notification
// shown to the citizen and the view to move to, if any.
type Outcome struct {
	View         View                `json:"view"`
	Notification notify.Notification `json:"notification"`
	NavigateTo   navigation.Route    `json:"navigate_to,omitempty"`
}

// Service owns onboarding, profile reads and profile edits.
type Service struct {
	store   Store
	sink    notify.Sink
	logger  *slog.Logger
	metrics *metrics.Metrics
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

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, sink: notify.Discard{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newView(r models.Record, exists bool) View {
	return View{Record: r, Completion: models.Completion(r), Missing: models.MissingFields(r), Exists: exists}
}

// Onboard creates the profile from the first-visit form, replacing any earlier one.
func (s *Service) Onboard(ctx context.Context, sessionID string, form models.Onboarding) (*Outcome, error) {
	ctx, span := tracer.Start(ctx, "profile.Onboard")
	defer span.End()

	if err := form.Validate(); err != nil {
		s.metrics.IncrementOnboarding("incomplete")
		s.sink.Notify(ctx, sessionID, notify.Destructive("Incomplete form", "Please fill all required fields."))
		return nil, err
	}

	record := form.Record()
	if err := s.store.Save(ctx, sessionID, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save profile")
	}

	view := newView(record, true)
	n := notify.Info("Welcome to YojanaMitra!", "Your profile has been created successfully.")
	s.sink.Notify(ctx, sessionID, n)
	s.metrics.IncrementOnboarding("created")
	s.metrics.ObserveCompletion(view.Completion)
	span.SetAttributes(attribute.Int("profile.completion", view.Completion))

	s.logger.InfoContext(ctx, "profile created",
		"request_id", requestcontext.RequestID(ctx),
		"session_id", sessionID,
		"aadhaar_fp", models.Fingerprint(record.Aadhaar),
		"completion", view.Completion,
	)
	return &Outcome{View: view, Notification: n, NavigateTo: navigation.RouteProfile}, nil
}

// Get loads the session's profile merged over defaults. A session without a
// profile gets the defaults, not an error.
func (s *Service) Get(ctx context.Context, sessionID string) (*View, error) {
	record, err := s.store.Load(ctx, sessionID)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		v := newView(models.Defaults(), false)
		return &v, nil
	case err != nil:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	v := newView(record, true)
	return &v, nil
}

// Record returns the session's profile merged over defaults.
func (s *Service) Record(ctx context.Context, sessionID string) (models.Record, error) {
	v, err := s.Get(ctx, sessionID)
	if err != nil {
		return models.Defaults(), err
	}
	return v.Record, nil
}

// Language returns the session's display language, falling back to the default.
func (s *Service) Language(ctx context.Context, sessionID string) string {
	v, err := s.Get(ctx, sessionID)
	if err != nil || v.Record.Language == "" {
		return models.DefaultLanguage
	}
	return v.Record.Language
}

// Save replaces the profile with an edited record.
func (s *Service) Save(ctx context.Context, sessionID string, record models.Record) (*Outcome, error) {
	ctx, span := tracer.Start(ctx, "profile.Save")
	defer span.End()

	record = record.Normalize()
	if err := models.ValidateRecord(record); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sessionID, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save profile")
	}

	view := newView(record, true)
	n := notify.Info("Profile updated", "Your profile has been saved successfully.")
	s.sink.Notify(ctx, sessionID, n)
	s.metrics.IncrementSaves()
	s.metrics.ObserveCompletion(view.Completion)

	s.logger.InfoContext(ctx, "profile saved",
		"request_id", requestcontext.RequestID(ctx),
		"session_id", sessionID,
		"aadhaar_fp", models.Fingerprint(record.Aadhaar),
		"completion", view.Completion,
	)
	return &Outcome{View: view, Notification: n}, nil
}

// ConnectDigiLocker is not integrated yet; it only tells the citizen so.
func (s *Service) ConnectDigiLocker(ctx context.Context, sessionID string) notify.Notification {
	n := notify.ComingSoon("DigiLocker Integration")
	s.sink.Notify(ctx, sessionID, n)
	return n
}
