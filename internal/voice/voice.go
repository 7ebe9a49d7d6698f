// Package voice turns a platform speech-recognition capability into a small
// state machine: idle, listening, then back to idle on a transcript, an error
// or the end of capture. Only one capture per browsing session is live; a new
// one silences the previous.
package voice

import (
	"context"
	"errors"
)

// ErrUnsupported is returned when the platform has no speech recognition.
var ErrUnsupported = errors.New("speech recognition unsupported")

// EventKind is what the recognizer reported.
type EventKind string

const (
	EventStart      EventKind = "start"
	EventTranscript EventKind = "transcript"
	EventError      EventKind = "error"
	EventEnd        EventKind = "end"
)

func (k EventKind) IsValid() bool {
	switch k {
	case EventStart, EventTranscript, EventError, EventEnd:
		return true
	}
	return false
}

// Event is one recognizer callback.
type Event struct {
	Kind   EventKind `json:"kind"`
	Text   string    `json:"text,omitempty"`
	Reason string    `json:"reason,omitempty"`
}

// LanguageHint is a BCP 47 locale passed to the recognizer, e.g. "hi-IN".
type LanguageHint string

// Recognizer is the speech-to-text capability. Start begins capture id and
// streams its events until ctx is cancelled; the channel is closed when the
// capture is released.
type Recognizer interface {
	Start(ctx context.Context, id string, hint LanguageHint) (<-chan Event, error)
}

// State is where a capturer is in its lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StateListening State = "listening"
)

// Listener receives the events of the capture it was started with.
type Listener interface {
	Started(ctx context.Context)
	Transcript(ctx context.Context, text string)
	Failed(ctx context.Context, reason string)
	Ended(ctx context.Context)
}
