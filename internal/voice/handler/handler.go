package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"yojanamitra/internal/voice"
	dErrors "yojanamitra/pkg/domain-errors"
	"yojanamitra/pkg/platform/httputil"
	"yojanamitra/pkg/requestcontext"
)

// Service defines the capture operations the handler needs.
type Service interface {
	Start(ctx context.Context, sessionID, target string) (*voice.Session, error)
	Deliver(ctx context.Context, sessionID, captureID string, ev voice.Event) error
	Stop(ctx context.Context, sessionID, captureID string) error
}

// StartRequest is the HTTP request body for POST /voice/sessions.
type StartRequest struct {
	Target string `json:"target"`
}

func (r *StartRequest) Validate() error {
	r.Target = strings.TrimSpace(r.Target)
	if r.Target == "" {
		return dErrors.New(dErrors.CodeValidation, "target is required")
	}
	return nil
}

// EventRequest is the HTTP request body for POST /voice/sessions/{id}/events.
type EventRequest struct {
	Kind   string `json:"kind"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

func (r *EventRequest) Validate() error {
	if r.Kind == "" {
		return dErrors.New(dErrors.CodeValidation, "kind is required")
	}
	if len(r.Text) > 500 {
		return dErrors.New(dErrors.CodeValidation, "text must be at most 500 characters")
	}
	r.Text = strings.TrimSpace(r.Text)
	return nil
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts voice capture endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/voice/sessions", h.HandleStart)
	r.Post("/voice/sessions/{id}/events", h.HandleEvent)
	r.Delete("/voice/sessions/{id}", h.HandleStop)
}

// HandleStart handles POST /voice/sessions.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[StartRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	sess, err := h.service.Start(ctx, requestcontext.SessionID(ctx), req.Target)
	if err != nil {
		h.logger.InfoContext(ctx, "voice capture not started",
			"request_id", requestID,
			"target", req.Target,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, sess)
}

// HandleEvent handles POST /voice/sessions/{id}/events.
func (h *Handler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[EventRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	ev := voice.Event{Kind: voice.EventKind(req.Kind), Text: req.Text, Reason: req.Reason}
	if err := h.service.Deliver(ctx, requestcontext.SessionID(ctx), chi.URLParam(r, "id"), ev); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleStop handles DELETE /voice/sessions/{id}.
func (h *Handler) HandleStop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.Stop(ctx, requestcontext.SessionID(ctx), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
