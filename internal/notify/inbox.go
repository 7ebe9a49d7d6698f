package notify

import (
	"context"
	"sync"

	"yojanamitra/pkg/requestcontext"
)

// DefaultInboxCapacity bounds the per-session backlog; the oldest entries are dropped first.
const DefaultInboxCapacity = 50

// Inbox buffers notifications per session until the client polls for them.
type Inbox struct {
	mu       sync.Mutex
	capacity int
	pending  map[string][]Notification
}

// NewInbox creates an inbox holding at most capacity notifications per session.
func NewInbox(capacity int) *Inbox {
	if capacity <= 0 {
		capacity = DefaultInboxCapacity
	}
	return &Inbox{capacity: capacity, pending: make(map[string][]Notification)}
}

func (i *Inbox) Notify(ctx context.Context, sessionID string, n Notification) {
	if sessionID == "" {
		return
	}
	if n.At.IsZero() {
		n.At = requestcontext.Now(ctx)
	}
	if n.Severity == "" {
		n.Severity = SeverityDefault
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	queue := append(i.pending[sessionID], n)
	if len(queue) > i.capacity {
		queue = queue[len(queue)-i.capacity:]
	}
	i.pending[sessionID] = queue
}

// Drain returns and clears the session's pending notifications, oldest first.
// The result is never nil.
func (i *Inbox) Drain(_ context.Context, sessionID string) []Notification {
	i.mu.Lock()
	defer i.mu.Unlock()
	queue := i.pending[sessionID]
	delete(i.pending, sessionID)
	if queue == nil {
		return []Notification{}
	}
	return queue
}

// Pending counts undelivered notifications for the session.
func (i *Inbox) Pending(_ context.Context, sessionID string) int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.pending[sessionID])
}
