// Package notify delivers user-facing notifications (toasts) for a browsing session.
//
// Notifications are fire-and-forget: a Sink never reports failure to the caller,
// so a broken sink can never block a profile save or a scheme application.
package notify

import (
	"context"
	"time"
)

//go:generate mockgen -source=notify.go -destination=mocks/mock_sink.go -package=mocks Sink

// Severity is the presentation class of a notification.
type Severity string

const (
	SeverityDefault     Severity = "default"
	SeverityDestructive Severity = "destructive"
)

// Notification is a transient message shown to the citizen.
type Notification struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	At          time.Time `json:"at"`
}

// Info builds a default-severity notification.
func Info(title, description string) Notification {
	return Notification{Title: title, Description: description, Severity: SeverityDefault}
}

// Destructive builds a destructive-severity notification.
func Destructive(title, description string) Notification {
	return Notification{Title: title, Description: description, Severity: SeverityDestructive}
}

// ComingSoon is the shared reply for features that exist only as stubs.
func ComingSoon(title string) Notification {
	return Info(title, "This feature will be available soon!")
}

// Sink accepts notifications for a session.
type Sink interface {
	Notify(ctx context.Context, sessionID string, n Notification)
}

// Fanout delivers to every sink in order.
type Fanout []Sink

func (f Fanout) Notify(ctx context.Context, sessionID string, n Notification) {
	for _, s := range f {
		if s != nil {
			s.Notify(ctx, sessionID, n)
		}
	}
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(context.Context, string, Notification) {}
