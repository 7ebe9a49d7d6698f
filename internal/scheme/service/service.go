package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"yojanamitra/internal/navigation"
	"yojanamitra/internal/notify"
	"yojanamitra/internal/profile/models"
	"yojanamitra/internal/scheme"
	"yojanamitra/internal/scheme/metrics"
	"yojanamitra/internal/selection"
	"yojanamitra/internal/viewstate"
	dErrors "yojanamitra/pkg/domain-errors"
	"yojanamitra/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks SelectionStore

var tracer = otel.Tracer("yojanamitra/scheme")

// ProfileReader supplies the profile the evaluator sees.
type ProfileReader interface {
	Record(ctx context.Context, sessionID string) (models.Record, error)
}

// SelectionStore records the scheme handed to the application view.
type SelectionStore interface {
	Save(ctx context.Context, sessionID string, sel selection.Selection) error
	Load(ctx context.Context, sessionID string) (selection.Selection, error)
}

// SearchStateReader exposes the session's stored filter inputs.
type SearchStateReader interface {
	Get(ctx context.Context, sessionID string) (viewstate.State, error)
}

// Card is one search result with the eligibility shown for it.
type Card struct {
	scheme.Scheme
	Decision scheme.Decision `json:"decision"`
}

// SearchResult is the filtered catalog for a query.
type SearchResult struct {
	Query scheme.Query `json:"filters"`
	Cards []Card       `json:"schemes"`
	Total int          `json:"total"`
}

// ApplyOutcome is the result of a successful apply.
type ApplyOutcome struct {
	Selection    selection.Selection `json:"selection"`
	Notification notify.Notification `json:"notification"`
	NavigateTo   navigation.Route    `json:"navigate_to"`
}

// Service serves the catalog and the apply hand-off.
type Service struct {
	catalog    *scheme.Catalog
	evaluator  scheme.Evaluator
	profiles   ProfileReader
	selections SelectionStore
	views      SearchStateReader
	sink       notify.Sink
	logger     *slog.Logger
	metrics    *metrics.Metrics
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

func WithEvaluator(e scheme.Evaluator) Option {
	return func(s *Service) {
		s.evaluator = e
	}
}

func WithSearchState(views SearchStateReader) Option {
	return func(s *Service) {
		s.views = views
	}
}

func New(catalog *scheme.Catalog, profiles ProfileReader, selections SelectionStore, opts ...Option) *Service {
	s := &Service{
		catalog:    catalog,
		evaluator:  scheme.StaticEvaluator{},
		profiles:   profiles,
		selections: selections,
		sink:       notify.Discard{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) profile(ctx context.Context, sessionID string) models.Record {
	if s.profiles == nil {
		return models.Defaults()
	}
	r, err := s.profiles.Record(ctx, sessionID)
	if err != nil {
		// Eligibility display degrades to an empty profile rather than failing the search.
		s.logger.WarnContext(ctx, "profile unavailable for eligibility",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return models.Defaults()
	}
	return r
}

// Search filters the catalog and attaches an eligibility decision to each card.
func (s *Service) Search(ctx context.Context, sessionID string, q scheme.Query) (*SearchResult, error) {
	ctx, span := tracer.Start(ctx, "scheme.Search")
	defer span.End()

	matches := s.catalog.Filter(q)
	profile := s.profile(ctx, sessionID)
	cards := make([]Card, 0, len(matches))
	for _, m := range matches {
		cards = append(cards, Card{Scheme: m, Decision: s.evaluator.Evaluate(ctx, profile, m)})
	}

	category := string(q.Category)
	if category == "" {
		category = string(scheme.CategoryAll)
	}
	s.metrics.ObserveSearch(category, len(cards))
	span.SetAttributes(attribute.Int("scheme.results", len(cards)))

	return &SearchResult{Query: q, Cards: cards, Total: len(cards)}, nil
}

// SearchView runs Search with the filter inputs stored for the session.
func (s *Service) SearchView(ctx context.Context, sessionID string) (*SearchResult, error) {
	if s.views == nil {
		return s.Search(ctx, sessionID, scheme.Query{})
	}
	st, err := s.views.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	q, err := scheme.NewQuery(st.Schemes.Query, st.Schemes.Category, st.Schemes.Region)
	if err != nil {
		return nil, err
	}
	return s.Search(ctx, sessionID, q)
}

// Get returns one scheme with its decision.
func (s *Service) Get(ctx context.Context, sessionID string, id int) (*Card, error) {
	sc, ok := s.catalog.Get(id)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("scheme %d not found", id))
	}
	return &Card{Scheme: sc, Decision: s.evaluator.Evaluate(ctx, s.profile(ctx, sessionID), sc)}, nil
}

// Apply hands an eligible scheme to the application view. A not-eligible
// scheme is refused with a notification and nothing is written.
func (s *Service) Apply(ctx context.Context, sessionID string, id int) (*ApplyOutcome, error) {
	ctx, span := tracer.Start(ctx, "scheme.Apply")
	defer span.End()
	span.SetAttributes(attribute.Int("scheme.id", id))

	card, err := s.Get(ctx, sessionID, id)
	if err != nil {
		return nil, err
	}

	if !card.Decision.Eligible() {
		s.sink.Notify(ctx, sessionID, notify.Destructive("Not Eligible", "You don't meet the eligibility criteria for this scheme."))
		s.metrics.IncrementApply("not_eligible")
		s.logger.InfoContext(ctx, "apply refused",
			"request_id", requestcontext.RequestID(ctx),
			"scheme_id", id,
			"reason", card.Decision.Reason,
		)
		return nil, dErrors.New(dErrors.CodeNotEligible, "not eligible for this scheme")
	}

	sel := selection.Selection{
		SchemeID:   card.ID,
		SchemeName: card.Name,
		Benefits:   card.Benefits,
		Documents:  card.RequiredDocuments,
		SelectedAt: requestcontext.Now(ctx),
	}
	if err := s.selections.Save(ctx, sessionID, sel); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save selected scheme")
	}

	n := notify.Info("Proceeding to Application", "Starting application for "+card.Name)
	s.sink.Notify(ctx, sessionID, n)
	s.metrics.IncrementApply("selected")
	s.logger.InfoContext(ctx, "scheme selected",
		"request_id", requestcontext.RequestID(ctx),
		"session_id", sessionID,
		"scheme_id", id,
	)
	return &ApplyOutcome{Selection: sel, Notification: n, NavigateTo: navigation.RouteApplications}, nil
}

// Selected returns the scheme most recently handed off for the session.
func (s *Service) Selected(ctx context.Context, sessionID string) (*selection.Selection, error) {
	sel, err := s.selections.Load(ctx, sessionID)
	if err != nil {
		return nil, translateSelectionErr(err)
	}
	return &sel, nil
}
