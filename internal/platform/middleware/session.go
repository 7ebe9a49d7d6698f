package middleware

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"yojanamitra/pkg/requestcontext"
)

// SessionHeader lets non-browser clients carry the browsing session explicitly.
const SessionHeader = "X-Session-ID"

const sessionCookieMaxAge = 365 * 24 * 60 * 60

// Session resolves the anonymous browsing session that owns profile, selection,
// settings and applications. A missing or malformed ID gets a fresh session and cookie.
// There is no authentication behind it.
func Session(cookieName string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(SessionHeader)
			if sessionID == "" {
				if c, err := r.Cookie(cookieName); err == nil {
					sessionID = c.Value
				}
			}

			ctx := r.Context()
			if _, err := uuid.Parse(sessionID); err != nil {
				if sessionID != "" {
					logger.DebugContext(r.Context(), "discarding malformed session id",
						"request_id", requestcontext.RequestID(r.Context()),
					)
				}
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   sessionCookieMaxAge,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				ctx = requestcontext.WithNewSession(ctx)
			}

			w.Header().Set(SessionHeader, sessionID)
			ctx = requestcontext.WithSessionID(ctx, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
