package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"yojanamitra/internal/notify"
	"yojanamitra/internal/profile/models"
	"yojanamitra/internal/profile/service"
	"yojanamitra/pkg/platform/httputil"
	"yojanamitra/pkg/requestcontext"
)

// Service defines the profile operations the handler needs.
type Service interface {
	Onboard(ctx context.Context, sessionID string, form models.Onboarding) (*service.Outcome, error)
	Get(ctx context.Context, sessionID string) (*service.View, error)
	Save(ctx context.Context, sessionID string, record models.Record) (*service.Outcome, error)
	ConnectDigiLocker(ctx context.Context, sessionID string) notify.Notification
}

// Handler wires onboarding and profile endpoints to the profile service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts profile endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/onboarding", h.HandleOnboard)
	r.Get("/profile", h.HandleGet)
	r.Put("/profile", h.HandleSave)
	r.Post("/profile/digilocker", h.HandleDigiLocker)
}

// OnboardingRequest is the body of POST /onboarding. Required fields are
// checked by the service so the citizen is notified about a partial form.
type OnboardingRequest struct {
	Name     string `json:"name"`
	Aadhaar  string `json:"aadhaar"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Language string `json:"language"`
}

// HandleOnboard handles POST /onboarding.
func (h *Handler) HandleOnboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[OnboardingRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	out, err := h.service.Onboard(ctx, requestcontext.SessionID(ctx), models.Onboarding(*req))
	if err != nil {
		h.logger.InfoContext(ctx, "onboarding rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, out)
}

// HandleGet handles GET /profile.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view, err := h.service.Get(ctx, requestcontext.SessionID(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load profile",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleSave handles PUT /profile. The body replaces the whole profile.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.Record](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	out, err := h.service.Save(ctx, requestcontext.SessionID(ctx), *req)
	if err != nil {
		h.logger.InfoContext(ctx, "profile save rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleDigiLocker handles POST /profile/digilocker.
func (h *Handler) HandleDigiLocker(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	n := h.service.ConnectDigiLocker(ctx, requestcontext.SessionID(ctx))
	httputil.WriteJSON(w, http.StatusAccepted, map[string]any{"notification": n})
}
