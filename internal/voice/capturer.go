package voice

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxCapture bounds a capture that never reports its end.
const DefaultMaxCapture = time.Minute

// Capturer runs at most one capture at a time. Starting a capture cancels the
// one before it, and events from a cancelled capture are dropped.
type Capturer struct {
	recognizer Recognizer
	maxCapture time.Duration

	mu         sync.Mutex
	generation uint64
	state      State
	active     string
	cancel     context.CancelFunc
	onIdle     func()
}

func NewCapturer(recognizer Recognizer, maxCapture time.Duration) *Capturer {
	if maxCapture <= 0 {
		maxCapture = DefaultMaxCapture
	}
	return &Capturer{recognizer: recognizer, maxCapture: maxCapture, state: StateIdle}
}

// OnIdle registers fn to run, outside the lock, when a capture ends on its own
// (end, error, timeout or closed stream). It is not called for Stop or for a
// capture superseded by Start. Call it before the first Start.
func (c *Capturer) OnIdle(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onIdle = fn
}

// Start begins capture id and feeds its events to l until the capture ends,
// fails, times out or is superseded. ctx scopes values only; the capture
// outlives the call that starts it.
func (c *Capturer) Start(ctx context.Context, id string, hint LanguageHint, l Listener) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.generation++
	gen := c.generation

	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.maxCapture)
	events, err := c.recognizer.Start(runCtx, id, hint)
	if err != nil {
		cancel()
		return err
	}
	c.state = StateListening
	c.active = id
	c.cancel = cancel

	go c.run(runCtx, gen, events, l)
	return nil
}

// Stop ends the active capture, if any. Its pending events are dropped.
func (c *Capturer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.stopLocked()
}

// State reports the current state and active capture id.
func (c *Capturer) State() (State, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.active
}

func (c *Capturer) stopLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = StateIdle
	c.active = ""
}

// deliver runs fn while gen is still the live capture, holding the lock so a
// concurrent Start cannot slip in between the check and the callback.
// Listeners must not call back into the Capturer. When last is set the
// capturer returns to idle first.
func (c *Capturer) deliver(gen uint64, last bool, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return false
	}
	if last {
		c.stopLocked()
	}
	fn()
	return true
}

// finish delivers the last event of capture gen and fires the idle hook.
func (c *Capturer) finish(gen uint64, fn func()) {
	if !c.deliver(gen, true, fn) {
		return
	}
	c.mu.Lock()
	onIdle := c.onIdle
	c.mu.Unlock()
	if onIdle != nil {
		onIdle()
	}
}

func (c *Capturer) run(ctx context.Context, gen uint64, events <-chan Event, l Listener) {
	for {
		select {
		case <-ctx.Done():
			c.finish(gen, func() { l.Ended(ctx) })
			return
		case ev, ok := <-events:
			if !ok {
				c.finish(gen, func() { l.Ended(ctx) })
				return
			}
			var live bool
			switch ev.Kind {
			case EventStart:
				live = c.deliver(gen, false, func() { l.Started(ctx) })
			case EventTranscript:
				live = c.deliver(gen, false, func() { l.Transcript(ctx, ev.Text) })
			case EventError:
				c.finish(gen, func() { l.Failed(ctx, ev.Reason) })
				return
			case EventEnd:
				c.finish(gen, func() { l.Ended(ctx) })
				return
			default:
				live = c.deliver(gen, false, func() {})
			}
			if !live {
				return
			}
		}
	}
}
