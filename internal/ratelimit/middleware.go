package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"yojanamitra/internal/ratelimit/metrics"
	dErrors "yojanamitra/pkg/domain-errors"
	"yojanamitra/pkg/platform/httputil"
	"yojanamitra/pkg/requestcontext"
)

// DefaultIPFactor scales a class limit into the ceiling shared by every
// session behind one client IP.
const DefaultIPFactor = 4

// Middleware applies a Policy per Class to each session. Requests whose session
// was minted for them count against the client IP instead, and established
// sessions also share a per-IP ceiling of Limit*ipFactor, so rotating session
// ids does not buy a fresh budget.
type Middleware struct {
	store    Store
	policies map[Class]Policy
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
	ipFactor int
}

type Option func(*Middleware)

// WithDisabled turns limiting off entirely.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mt
	}
}

// WithIPFactor sets the per-IP ceiling multiplier. Zero or less removes the ceiling.
func WithIPFactor(factor int) Option {
	return func(m *Middleware) {
		m.ipFactor = factor
	}
}

func New(store Store, policies map[Class]Policy, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{store: store, policies: policies, logger: logger, ipFactor: DefaultIPFactor}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// Handler enforces the limits. Store failures let the request through.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		class := ClassFor(r)
		policy, ok := m.policies[class]
		if m.disabled || !ok || policy.Limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		ip := "ip:" + requestcontext.ClientIP(ctx)
		sessionID := requestcontext.SessionID(ctx)

		var (
			res     Result
			checked bool
		)
		if sessionID == "" || requestcontext.NewSession(ctx) {
			res, checked = m.allow(r, class, key(class, ip), policy.Limit, policy.Window)
		} else {
			res, checked = m.allow(r, class, key(class, sessionID), policy.Limit, policy.Window)
			if (!checked || res.Allowed) && m.ipFactor > 0 {
				ceiling, ok := m.allow(r, class, key(class, "net:"+ip), policy.Limit*m.ipFactor, policy.Window)
				if ok && (!checked || !ceiling.Allowed || ceiling.Remaining < res.Remaining) {
					res, checked = ceiling, true
				}
			}
		}
		if !checked {
			next.ServeHTTP(w, r)
			return
		}
		m.metrics.IncrementDecision(string(class), res.Allowed)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(res.RetryAfter(requestcontext.Now(ctx))))
			m.logger.WarnContext(ctx, "rate limit exceeded",
				"request_id", requestcontext.RequestID(ctx),
				"class", class,
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "Too many requests. Please try again shortly."))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allow consults the store; false means the store failed and was logged.
func (m *Middleware) allow(r *http.Request, class Class, k string, limit int, window time.Duration) (Result, bool) {
	ctx := r.Context()
	res, err := m.store.Allow(ctx, k, limit, window)
	if err != nil {
		m.metrics.IncrementErrors()
		m.logger.ErrorContext(ctx, "rate limit check failed",
			"request_id", requestcontext.RequestID(ctx),
			"class", class,
			"error", err,
		)
		return Result{}, false
	}
	return res, true
}
