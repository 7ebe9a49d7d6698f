package viewstate

import (
	"context"
	"log/slog"
	"strings"

	dErrors "yojanamitra/pkg/domain-errors"
	"yojanamitra/pkg/requestcontext"
)

// Store persists State per session. Load of an unknown session returns DefaultState.
type Store interface {
	Load(ctx context.Context, sessionID string) (State, error)
	Update(ctx context.Context, sessionID string, fn func(*State) error) (State, error)
}

// Service reads and writes view state.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Get returns the session's state.
func (s *Service) Get(ctx context.Context, sessionID string) (State, error) {
	st, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return State{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load view state")
	}
	return st, nil
}

// UpdateSchemes replaces the scheme filter inputs. Blank selectors reset to "all".
func (s *Service) UpdateSchemes(ctx context.Context, sessionID string, search SchemeSearch) (State, error) {
	if strings.TrimSpace(search.Category) == "" {
		search.Category = "all"
	}
	if strings.TrimSpace(search.Region) == "" {
		search.Region = "all"
	}
	return s.update(ctx, sessionID, func(st *State) error {
		st.Schemes = search
		return nil
	})
}

// UpdateDraft replaces the onboarding draft.
func (s *Service) UpdateDraft(ctx context.Context, sessionID string, draft OnboardingDraft) (State, error) {
	if strings.TrimSpace(draft.Language) == "" {
		draft.Language = "en"
	}
	return s.update(ctx, sessionID, func(st *State) error {
		st.Onboarding = draft
		return nil
	})
}

// SetField replaces a single text input. It is the sink for voice transcripts.
func (s *Service) SetField(ctx context.Context, sessionID string, field Field, value string) error {
	_, err := s.update(ctx, sessionID, func(st *State) error {
		return st.Set(field, value)
	})
	if err == nil {
		s.logger.DebugContext(ctx, "view field replaced",
			"request_id", requestcontext.RequestID(ctx),
			"field", field,
		)
	}
	return err
}

func (s *Service) update(ctx context.Context, sessionID string, fn func(*State) error) (State, error) {
	st, err := s.store.Update(ctx, sessionID, fn)
	if err != nil {
		if dErrors.Is(err) {
			return State{}, err
		}
		return State{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save view state")
	}
	return st, nil
}
