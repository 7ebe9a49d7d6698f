package voice

import (
	"context"
	"sync"

	"github.com/mssola/useragent"

	"yojanamitra/pkg/platform/sentinel"
	"yojanamitra/pkg/requestcontext"
)

const relayBuffer = 16

// speechBrowsers ship the Web Speech API.
var speechBrowsers = map[string]bool{
	"Chrome":           true,
	"Chromium":         true,
	"Edge":             true,
	"Safari":           true,
	"Opera":            true,
	"Samsung Internet": true,
}

// SupportsSpeech reports whether the browser behind a User-Agent string can
// run speech recognition. Bots and unknown agents cannot.
func SupportsSpeech(userAgent string) bool {
	if userAgent == "" {
		return false
	}
	ua := useragent.New(userAgent)
	if ua.Bot() {
		return false
	}
	name, _ := ua.Browser()
	return speechBrowsers[name]
}

// Relay is a Recognizer whose events are recognised in the browser and posted
// back over HTTP. Capability is judged from the User-Agent in ctx.
type Relay struct {
	mu      sync.Mutex
	streams map[string]chan Event
}

func NewRelay() *Relay {
	return &Relay{streams: make(map[string]chan Event)}
}

func (r *Relay) Start(ctx context.Context, id string, _ LanguageHint) (<-chan Event, error) {
	if !SupportsSpeech(requestcontext.UserAgent(ctx)) {
		return nil, ErrUnsupported
	}

	ch := make(chan Event, relayBuffer)
	r.mu.Lock()
	r.streams[id] = ch
	r.mu.Unlock()

	go func() {
		<-ctx.Done()
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.streams[id] == ch {
			delete(r.streams, id)
			close(ch)
		}
	}()
	return ch, nil
}

// Deliver hands a browser event to capture id. It returns sentinel.ErrNotFound
// once the capture has ended or been replaced, and sentinel.ErrUnavailable
// when the capture is not keeping up.
func (r *Relay) Deliver(id string, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.streams[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	select {
	case ch <- ev:
		return nil
	default:
		return sentinel.ErrUnavailable
	}
}

// Active reports how many captures are streaming.
func (r *Relay) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.streams)
}
