package testutil

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"yojanamitra/pkg/requestcontext"
)

// WithSession adds a browsing session ID to the request context.
// This simulates what the session middleware does for every request.
// If the sessionID is not a valid UUID, it will not be added to the context.
func WithSession(req *http.Request, sessionID string) *http.Request {
	if _, err := uuid.Parse(sessionID); err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithSessionID(req.Context(), sessionID))
}

// SessionMiddleware pins every request routed through it to sessionID.
func SessionMiddleware(sessionID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, WithSession(r, sessionID))
		})
	}
}

// WithFixedTime pins the request clock.
func WithFixedTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
