package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"yojanamitra/internal/viewstate"
	"yojanamitra/pkg/platform/httputil"
	"yojanamitra/pkg/requestcontext"
)

// Service defines the view state operations the handler needs.
type Service interface {
	Get(ctx context.Context, sessionID string) (viewstate.State, error)
	UpdateSchemes(ctx context.Context, sessionID string, search viewstate.SchemeSearch) (viewstate.State, error)
	UpdateDraft(ctx context.Context, sessionID string, draft viewstate.OnboardingDraft) (viewstate.State, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts view state endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/schemes/view", h.HandleGetSchemes)
	r.Put("/schemes/view", h.HandlePutSchemes)
	r.Get("/onboarding/draft", h.HandleGetDraft)
	r.Put("/onboarding/draft", h.HandlePutDraft)
}

func (h *Handler) HandleGetSchemes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st, err := h.service.Get(ctx, requestcontext.SessionID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st.Schemes)
}

func (h *Handler) HandlePutSchemes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[viewstate.SchemeSearch](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	st, err := h.service.UpdateSchemes(ctx, requestcontext.SessionID(ctx), *req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st.Schemes)
}

func (h *Handler) HandleGetDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st, err := h.service.Get(ctx, requestcontext.SessionID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st.Onboarding)
}

func (h *Handler) HandlePutDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[viewstate.OnboardingDraft](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	st, err := h.service.UpdateDraft(ctx, requestcontext.SessionID(ctx), *req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st.Onboarding)
}
