package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"yojanamitra/internal/notify"
	"yojanamitra/pkg/platform/httputil"
	"yojanamitra/pkg/requestcontext"
)

// Inbox is the read side of the per-session notification buffer.
type Inbox interface {
	Drain(ctx context.Context, sessionID string) []notify.Notification
}

// Handler serves pending notifications to polling clients.
type Handler struct {
	inbox  Inbox
	logger *slog.Logger
}

func New(inbox Inbox, logger *slog.Logger) *Handler {
	return &Handler{inbox: inbox, logger: logger}
}

// Register mounts notification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/notifications", h.HandleDrain)
}

// NotificationsResponse is the body of GET /notifications.
type NotificationsResponse struct {
	Notifications []notify.Notification `json:"notifications"`
}

// HandleDrain handles GET /notifications. Delivered notifications are removed.
func (h *Handler) HandleDrain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pending := h.inbox.Drain(ctx, requestcontext.SessionID(ctx))
	h.logger.DebugContext(ctx, "notifications drained",
		"request_id", requestcontext.RequestID(ctx),
		"count", len(pending),
	)
	httputil.WriteJSON(w, http.StatusOK, NotificationsResponse{Notifications: pending})
}
