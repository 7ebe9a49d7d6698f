package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"yojanamitra/internal/application/models"
	"yojanamitra/internal/application/service"
	"yojanamitra/internal/notify"
	dErrors "yojanamitra/pkg/domain-errors"
	"yojanamitra/pkg/platform/httputil"
	"yojanamitra/pkg/requestcontext"
)

// Service defines the tracker operations the handler needs.
type Service interface {
	Submit(ctx context.Context, sessionID string) (*service.Outcome, error)
	List(ctx context.Context, sessionID string, tab models.Tab) (*service.ListResult, error)
	Get(ctx context.Context, sessionID string, id uuid.UUID) (*models.View, error)
	Advance(ctx context.Context, sessionID string, id uuid.UUID, t models.Transition) (*service.Outcome, error)
	Retry(ctx context.Context, sessionID string, id uuid.UUID) (notify.Notification, error)
	Escalate(ctx context.Context, sessionID string, id uuid.UUID) (notify.Notification, error)
	DownloadCertificate(ctx context.Context, sessionID string, id uuid.UUID) (notify.Notification, error)
}

// NotificationResponse carries the message for a placeholder action.
type NotificationResponse struct {
	Notification notify.Notification `json:"notification"`
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts tracker endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/applications", h.HandleSubmit)
	r.Get("/applications", h.HandleList)
	r.Get("/applications/{id}", h.HandleGet)
	r.Post("/applications/{id}/transitions", h.HandleTransition)
	r.Post("/applications/{id}/retry", h.placeholder(Service.Retry))
	r.Post("/applications/{id}/escalate", h.placeholder(Service.Escalate))
	r.Post("/applications/{id}/certificate", h.placeholder(Service.DownloadCertificate))
}

// HandleSubmit handles POST /applications.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.service.Submit(ctx, requestcontext.SessionID(ctx))
	if err != nil {
		h.logger.InfoContext(ctx, "application not submitted",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, out)
}

// HandleList handles GET /applications?status=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, err := models.ParseTab(r.URL.Query().Get("status"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	res, err := h.service.List(ctx, requestcontext.SessionID(ctx), tab)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list applications",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleGet handles GET /applications/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := applicationID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	view, err := h.service.Get(ctx, requestcontext.SessionID(ctx), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleTransition handles POST /applications/{id}/transitions.
func (h *Handler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	id, err := applicationID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[TransitionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	out, err := h.service.Advance(ctx, requestcontext.SessionID(ctx), id, req.Transition())
	if err != nil {
		h.logger.InfoContext(ctx, "transition refused",
			"request_id", requestID,
			"application_id", id,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) placeholder(action func(Service, context.Context, string, uuid.UUID) (notify.Notification, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := applicationID(r)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		n, err := action(h.service, ctx, requestcontext.SessionID(ctx), id)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusAccepted, NotificationResponse{Notification: n})
	}
}

func applicationID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "application id must be a UUID")
	}
	return id, nil
}
