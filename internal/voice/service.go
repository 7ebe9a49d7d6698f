package voice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"yojanamitra/internal/i18n"
	"yojanamitra/internal/notify"
	"yojanamitra/internal/viewstate"
	"yojanamitra/internal/voice/metrics"
	dErrors "yojanamitra/pkg/domain-errors"
	"yojanamitra/pkg/platform/sentinel"
	"yojanamitra/pkg/requestcontext"
)

// FieldWriter is where transcripts land.
type FieldWriter interface {
	Get(ctx context.Context, sessionID string) (viewstate.State, error)
	SetField(ctx context.Context, sessionID string, field viewstate.Field, value string) error
}

// Deliverer accepts events for a running capture.
type Deliverer interface {
	Deliver(id string, ev Event) error
}

// Session describes a capture as returned to the client.
type Session struct {
	ID       string          `json:"id"`
	Target   viewstate.Field `json:"target"`
	Language LanguageHint    `json:"language"`
	State    State           `json:"state"`
}

type messages struct {
	startedTitle, startedText         string
	capturedTitle, capturedFormat     string
	errorTitle, errorText             string
	unsupportedTitle, unsupportedText string
}

var targetMessages = map[viewstate.Field]messages{
	viewstate.FieldSchemeQuery: {
		startedTitle: "Voice search started", startedText: "Speak the scheme name you're looking for...",
		capturedTitle: "Voice search captured", capturedFormat: "Searching for: %s",
		errorTitle: "Voice search error", errorText: "Please try again or use text search.",
		unsupportedTitle: "Voice search not supported", unsupportedText: "Please use text search instead.",
	},
	viewstate.FieldOnboardingName: {
		startedTitle: "Voice input started", startedText: "Please speak your details...",
		capturedTitle: "Voice captured", capturedFormat: "Heard: %s",
		errorTitle: "Voice input error", errorText: "Please try again or type manually.",
		unsupportedTitle: "Voice input not supported", unsupportedText: "Please use manual input.",
	},
}

// Service keeps one Capturer per browsing session.
type Service struct {
	recognizer Recognizer
	deliverer  Deliverer
	fields     FieldWriter
	sink       notify.Sink
	logger     *slog.Logger
	metrics    *metrics.Metrics
	maxCapture time.Duration

	mu        sync.Mutex
	capturers map[string]*Capturer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithNotifier(sink notify.Sink) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

func WithMaxCapture(d time.Duration) Option {
	return func(s *Service) {
		s.maxCapture = d
	}
}

func NewService(recognizer Recognizer, deliverer Deliverer, fields FieldWriter, opts ...Option) *Service {
	s := &Service{
		recognizer: recognizer,
		deliverer:  deliverer,
		fields:     fields,
		sink:       notify.Discard{},
		logger:     slog.Default(),
		maxCapture: DefaultMaxCapture,
		capturers:  make(map[string]*Capturer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lookup returns the session's capturer, or nil when it has none.
func (s *Service) lookup(sessionID string) *Capturer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capturers[sessionID]
}

// start runs a capture on the session's capturer, creating it if needed. The
// entry lives only while a capture is listening.
func (s *Service) start(ctx context.Context, sessionID, id string, hint LanguageHint, l Listener) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.capturers[sessionID]
	if !ok {
		c = NewCapturer(s.recognizer, s.maxCapture)
		c.OnIdle(func() { s.release(sessionID, c) })
		s.capturers[sessionID] = c
	}
	err := c.Start(ctx, id, hint, l)
	if err != nil {
		delete(s.capturers, sessionID)
	}
	return err
}

// release drops c once it is idle and still the session's capturer.
func (s *Service) release(sessionID string, c *Capturer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.capturers[sessionID] != c {
		return
	}
	if state, _ := c.State(); state == StateIdle {
		delete(s.capturers, sessionID)
	}
}

// Captures reports how many sessions hold a capturer.
func (s *Service) Captures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.capturers)
}

// hint picks the recognition locale. Onboarding follows the language chosen
// on the form; scheme search is always Indian English.
func (s *Service) hint(ctx context.Context, sessionID string, target viewstate.Field) LanguageHint {
	if target != viewstate.FieldOnboardingName {
		return LanguageHint(i18n.SpeechLocale(i18n.Fallback))
	}
	st, err := s.fields.Get(ctx, sessionID)
	if err != nil {
		return LanguageHint(i18n.SpeechLocale(i18n.Fallback))
	}
	return LanguageHint(i18n.SpeechLocale(st.Onboarding.Language))
}

// Start begins a capture for target, replacing any capture the session has
// running. An unsupported platform is reported and returned as
// CodeUnsupported; nothing else changes. Any other recognizer failure is
// reported and returned as CodeCaptureFailed.
func (s *Service) Start(ctx context.Context, sessionID, target string) (*Session, error) {
	field, err := viewstate.ParseField(target)
	if err != nil {
		return nil, err
	}
	msgs := targetMessages[field]
	hint := s.hint(ctx, sessionID, field)
	id := uuid.NewString()

	l := &listener{service: s, sessionID: sessionID, captureID: id, field: field, msgs: msgs}
	if err := s.start(ctx, sessionID, id, hint, l); err != nil {
		if errors.Is(err, ErrUnsupported) {
			s.sink.Notify(ctx, sessionID, notify.Destructive(msgs.unsupportedTitle, msgs.unsupportedText))
			s.metrics.IncrementCapture(string(field), "unsupported")
			return nil, dErrors.Wrap(err, dErrors.CodeUnsupported, "speech recognition is not available on this device")
		}
		s.sink.Notify(ctx, sessionID, notify.Destructive(msgs.errorTitle, msgs.errorText))
		s.metrics.IncrementCapture(string(field), "failed")
		s.logger.ErrorContext(ctx, "voice capture failed to start",
			"request_id", requestcontext.RequestID(ctx),
			"target", field,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeCaptureFailed, "failed to start voice capture")
	}

	s.metrics.IncrementCapture(string(field), "started")
	s.logger.InfoContext(ctx, "voice capture started",
		"request_id", requestcontext.RequestID(ctx),
		"capture_id", id,
		"target", field,
		"language", hint,
	)
	return &Session{ID: id, Target: field, Language: hint, State: StateListening}, nil
}

// Deliver passes a browser event to the session's live capture.
func (s *Service) Deliver(ctx context.Context, sessionID, captureID string, ev Event) error {
	if !ev.Kind.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown event kind %q", ev.Kind))
	}
	if _, err := s.requireActive(sessionID, captureID); err != nil {
		return err
	}
	if err := s.deliverer.Deliver(captureID, ev); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return inactive(captureID)
		case errors.Is(err, sentinel.ErrUnavailable):
			return dErrors.New(dErrors.CodeConflict, "capture is busy; retry the event")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to deliver voice event")
	}
	s.logger.DebugContext(ctx, "voice event relayed",
		"request_id", requestcontext.RequestID(ctx),
		"capture_id", captureID,
		"kind", ev.Kind,
	)
	return nil
}

// Stop ends the session's live capture.
func (s *Service) Stop(ctx context.Context, sessionID, captureID string) error {
	c, err := s.requireActive(sessionID, captureID)
	if err != nil {
		return err
	}
	c.Stop()
	s.release(sessionID, c)
	s.logger.InfoContext(ctx, "voice capture stopped",
		"request_id", requestcontext.RequestID(ctx),
		"capture_id", captureID,
	)
	return nil
}

// Status returns the session's capture state and live capture id.
func (s *Service) Status(sessionID string) (State, string) {
	c := s.lookup(sessionID)
	if c == nil {
		return StateIdle, ""
	}
	return c.State()
}

// Close stops every live capture; used on shutdown.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.capturers {
		c.Stop()
		delete(s.capturers, id)
	}
}

func (s *Service) requireActive(sessionID, captureID string) (*Capturer, error) {
	c := s.lookup(sessionID)
	if c == nil {
		return nil, inactive(captureID)
	}
	state, active := c.State()
	if state != StateListening || active != captureID {
		return nil, inactive(captureID)
	}
	return c, nil
}

func inactive(captureID string) error {
	return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("voice capture %s is not active", captureID))
}

// listener applies one capture's events to its target field.
type listener struct {
	service   *Service
	sessionID string
	captureID string
	field     viewstate.Field
	msgs      messages
}

func (l *listener) Started(ctx context.Context) {
	l.service.sink.Notify(ctx, l.sessionID, notify.Info(l.msgs.startedTitle, l.msgs.startedText))
}

func (l *listener) Transcript(ctx context.Context, text string) {
	if err := l.service.fields.SetField(ctx, l.sessionID, l.field, text); err != nil {
		l.service.logger.ErrorContext(ctx, "failed to apply transcript",
			"capture_id", l.captureID,
			"error", err,
		)
		l.service.sink.Notify(ctx, l.sessionID, notify.Destructive(l.msgs.errorTitle, l.msgs.errorText))
		return
	}
	l.service.metrics.IncrementOutcome("transcript")
	l.service.sink.Notify(ctx, l.sessionID, notify.Info(l.msgs.capturedTitle, fmt.Sprintf(l.msgs.capturedFormat, text)))
}

func (l *listener) Failed(ctx context.Context, reason string) {
	l.service.metrics.IncrementOutcome("error")
	l.service.logger.WarnContext(ctx, "voice capture failed",
		"capture_id", l.captureID,
		"reason", reason,
	)
	l.service.sink.Notify(ctx, l.sessionID, notify.Destructive(l.msgs.errorTitle, l.msgs.errorText))
}

func (l *listener) Ended(ctx context.Context) {
	l.service.metrics.IncrementOutcome("ended")
	l.service.logger.DebugContext(ctx, "voice capture ended", "capture_id", l.captureID)
}
