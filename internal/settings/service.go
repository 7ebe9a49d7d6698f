package settings

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"

	"yojanamitra/internal/notify"
	dErrors "yojanamitra/pkg/domain-errors"
	"yojanamitra/pkg/platform/sentinel"
	"yojanamitra/pkg/requestcontext"
)

var tracer = otel.Tracer("yojanamitra/settings")

// Store persists one settings document per session.
type Store interface {
	Load(ctx context.Context, sessionID string) (Settings, error)
	Save(ctx context.Context, sessionID string, v Settings) error
}

// Outcome is a saved settings document and the notification it raised.
type Outcome struct {
	Settings     Settings            `json:"settings"`
	Notification notify.Notification `json:"notification"`
}

type Service struct {
	store  Store
	sink   notify.Sink
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithNotifier(sink notify.Sink) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, sink: notify.Discard{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the session's settings, or the defaults if none were saved.
func (s *Service) Get(ctx context.Context, sessionID string) (Settings, error) {
	v, err := s.store.Load(ctx, sessionID)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return Defaults(), nil
	case err != nil:
		return Defaults(), dErrors.Wrap(err, dErrors.CodeInternal, "failed to load settings")
	}
	return v, nil
}

// Update applies a partial change and saves the result.
func (s *Service) Update(ctx context.Context, sessionID string, p Patch) (*Outcome, error) {
	ctx, span := tracer.Start(ctx, "settings.Update")
	defer span.End()

	current, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	next, err := p.Apply(current)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sessionID, next); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save settings")
	}

	n := notify.Info("Settings updated", "Your preferences have been saved.")
	s.sink.Notify(ctx, sessionID, n)
	s.logger.InfoContext(ctx, "settings saved",
		"request_id", requestcontext.RequestID(ctx),
		"session_id", sessionID,
		"language", next.Language,
		"font_size", next.FontSize,
	)
	return &Outcome{Settings: next, Notification: n}, nil
}
