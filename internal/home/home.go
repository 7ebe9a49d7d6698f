// Package home assembles the landing view from the other modules.
package home

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	appmodels "yojanamitra/internal/application/models"
	profileservice "yojanamitra/internal/profile/service"
	"yojanamitra/internal/scheme"
	schemeservice "yojanamitra/internal/scheme/service"
	dErrors "yojanamitra/pkg/domain-errors"
	"yojanamitra/pkg/requestcontext"
)

var tracer = otel.Tracer("yojanamitra/home")

const summaryTimeout = 2 * time.Second

type ProfileReader interface {
	Get(ctx context.Context, sessionID string) (*profileservice.View, error)
}

type ApplicationCounter interface {
	Counts(ctx context.Context, sessionID string) (appmodels.TabCounts, error)
}

type SchemeSearcher interface {
	Search(ctx context.Context, sessionID string, q scheme.Query) (*schemeservice.SearchResult, error)
}

type NotificationCounter interface {
	Pending(ctx context.Context, sessionID string) int
}

// Summary is the landing view for a session.
type Summary struct {
	ProfileExists        bool                `json:"profile_exists"`
	ProfileCompletion    int                 `json:"profile_completion"`
	Applications         appmodels.TabCounts `json:"applications"`
	EligibleSchemes      int                 `json:"eligible_schemes"`
	TotalSchemes         int                 `json:"total_schemes"`
	PendingNotifications int                 `json:"pending_notifications"`
}

type Service struct {
	profiles      ProfileReader
	applications  ApplicationCounter
	schemes       SchemeSearcher
	notifications NotificationCounter
	logger        *slog.Logger
	timeout       time.Duration
}

func NewService(profiles ProfileReader, applications ApplicationCounter, schemes SchemeSearcher, notifications NotificationCounter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		profiles:      profiles,
		applications:  applications,
		schemes:       schemes,
		notifications: notifications,
		logger:        logger,
		timeout:       summaryTimeout,
	}
}

// Summary gathers every section concurrently; the first failure cancels the rest.
// Running past the timeout yields CodeTimeout.
func (s *Service) Summary(ctx context.Context, sessionID string) (*Summary, error) {
	ctx, span := tracer.Start(ctx, "home.Summary")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	out := &Summary{}

	g.Go(func() error {
		v, err := s.profiles.Get(ctx, sessionID)
		if err != nil {
			return err
		}
		out.ProfileExists = v.Exists
		out.ProfileCompletion = v.Completion
		return nil
	})

	g.Go(func() error {
		counts, err := s.applications.Counts(ctx, sessionID)
		if err != nil {
			return err
		}
		out.Applications = counts
		return nil
	})

	g.Go(func() error {
		res, err := s.schemes.Search(ctx, sessionID, scheme.Query{})
		if err != nil {
			return err
		}
		for _, c := range res.Cards {
			if c.Decision.Eligible() {
				out.EligibleSchemes++
			}
		}
		out.TotalSchemes = res.Total
		return nil
	})

	g.Go(func() error {
		out.PendingNotifications = s.notifications.Pending(ctx, sessionID)
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.WarnContext(ctx, "home summary failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "home summary timed out")
		}
		return nil, err
	}
	return out, nil
}
