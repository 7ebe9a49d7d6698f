// Package ratelimit bounds how fast one browsing session can call the API.
// Windows slide: a request counts against the limit for exactly one window
// after it was admitted.
package ratelimit

import (
	"context"
	"net/http"
	"time"
)

// Class groups endpoints that share a limit.
type Class string

const (
	ClassRead  Class = "read"
	ClassWrite Class = "write"
)

// ClassFor classifies a request by method.
func ClassFor(r *http.Request) Class {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ClassRead
	default:
		return ClassWrite
	}
}

// Policy is the number of requests admitted per window.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Result describes one admission decision.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the whole seconds until the window frees a slot, at least 1.
func (r Result) RetryAfter(now time.Time) int {
	secs := int(r.ResetAt.Sub(now).Round(time.Second) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

// Store admits or rejects one request for key.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

func key(class Class, subject string) string {
	return string(class) + ":" + subject
}
