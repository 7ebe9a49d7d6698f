package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"yojanamitra/internal/scheme"
	"yojanamitra/internal/scheme/service"
	"yojanamitra/internal/selection"
	dErrors "yojanamitra/pkg/domain-errors"
	"yojanamitra/pkg/platform/httputil"
	"yojanamitra/pkg/requestcontext"
)

// Service defines the catalog operations the handler needs.
type Service interface {
	Search(ctx context.Context, sessionID string, q scheme.Query) (*service.SearchResult, error)
	SearchView(ctx context.Context, sessionID string) (*service.SearchResult, error)
	Get(ctx context.Context, sessionID string, id int) (*service.Card, error)
	Apply(ctx context.Context, sessionID string, id int) (*service.ApplyOutcome, error)
	Selected(ctx context.Context, sessionID string) (*selection.Selection, error)
}

// Handler wires catalog endpoints to the scheme service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts catalog endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/schemes", h.HandleSearch)
	r.Get("/schemes/view/results", h.HandleSearchView)
	r.Get("/schemes/selected", h.HandleSelected)
	r.Get("/schemes/{id}", h.HandleGet)
	r.Post("/schemes/{id}/apply", h.HandleApply)
}

// HandleSearch handles GET /schemes?q=&category=&region=.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := r.URL.Query()

	q, err := scheme.NewQuery(params.Get("q"), params.Get("category"), params.Get("region"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	res, err := h.service.Search(ctx, requestcontext.SessionID(ctx), q)
	if err != nil {
		h.logger.ErrorContext(ctx, "scheme search failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleSearchView handles GET /schemes/view/results using the stored filters.
func (h *Handler) HandleSearchView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.service.SearchView(ctx, requestcontext.SessionID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleGet handles GET /schemes/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := schemeID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	card, err := h.service.Get(ctx, requestcontext.SessionID(ctx), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, card)
}

// HandleApply handles POST /schemes/{id}/apply.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	id, err := schemeID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out, err := h.service.Apply(ctx, requestcontext.SessionID(ctx), id)
	if err != nil {
		h.logger.InfoContext(ctx, "apply not completed",
			"request_id", requestID,
			"scheme_id", id,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleSelected handles GET /schemes/selected.
func (h *Handler) HandleSelected(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sel, err := h.service.Selected(ctx, requestcontext.SessionID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sel)
}

func schemeID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "scheme id must be a positive integer")
	}
	return id, nil
}
