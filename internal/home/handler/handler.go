package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"yojanamitra/internal/home"
	"yojanamitra/pkg/platform/httputil"
	"yojanamitra/pkg/requestcontext"
)

type Service interface {
	Summary(ctx context.Context, sessionID string) (*home.Summary, error)
}

type Handler struct {
	service Service
}

func New(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/home", h.HandleSummary)
}

func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sum, err := h.service.Summary(ctx, requestcontext.SessionID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sum)
}
