package models

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	dErrors "yojanamitra/pkg/domain-errors"
)

// DateLayout is the calendar-day format used for every application date.
const DateLayout = "2006-01-02"

// SubmittedProgress is where a fresh application starts.
const SubmittedProgress = 10

// FormatDate renders t as a calendar day.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TimelineEvent is one immutable step in an application's history.
type TimelineEvent struct {
	Date   string `json:"date"`
	Status string `json:"status"`
	Text   string `json:"text"`
}

// Timeline is the ordered event history of one application.
type Timeline []TimelineEvent

// Append returns the timeline with e added at the end. Events may share a
// date but never go back in time; nothing is reordered or deduplicated.
func (t Timeline) Append(e TimelineEvent) (Timeline, error) {
	day, err := time.Parse(DateLayout, e.Date)
	if err != nil {
		return t, dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("timeline date %q is not a calendar day", e.Date))
	}
	if n := len(t); n > 0 {
		last, err := time.Parse(DateLayout, t[n-1].Date)
		if err == nil && day.Before(last) {
			return t, dErrors.New(dErrors.CodeInvariantViolation,
				fmt.Sprintf("timeline event on %s precedes %s", e.Date, t[n-1].Date))
		}
	}
	out := make(Timeline, len(t), len(t)+1)
	copy(out, t)
	return append(out, e), nil
}

// Application is a citizen's submission against a scheme.
//
// Invariants:
//   - Progress is within 0..100 and never decreases
//   - Progress is 100 only when Status is approved, and approved means 100
//   - RejectionReason is set only when Status is rejected
//   - Timeline is chronological and starts with the submission
type Application struct {
	ID              uuid.UUID `json:"id"`
	SessionID       string    `json:"-"`
	SchemeID        int       `json:"scheme_id"`
	SchemeName      string    `json:"scheme_name"`
	ApplicationDate string    `json:"application_date"`
	Status          Status    `json:"status"`
	Progress        int       `json:"progress"`
	Amount          string    `json:"amount"`
	Reference       string    `json:"reference"`
	Documents       []string  `json:"documents"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	NextPayment     string    `json:"next_payment,omitempty"`
	Timeline        Timeline  `json:"timeline"`
}

// NewApplication builds a freshly submitted application.
func NewApplication(sessionID string, schemeID int, schemeName, amount string, documents []string, now time.Time) (*Application, error) {
	if strings.TrimSpace(schemeName) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "scheme name cannot be empty")
	}
	if documents == nil {
		documents = []string{}
	}
	day := FormatDate(now)
	app := &Application{
		ID:              uuid.New(),
		SessionID:       sessionID,
		SchemeID:        schemeID,
		SchemeName:      schemeName,
		ApplicationDate: day,
		Status:          StatusSubmitted,
		Progress:        SubmittedProgress,
		Amount:          amount,
		Reference:       NewReference(schemeName, now),
		Documents:       documents,
		Timeline:        Timeline{{Date: day, Status: string(StatusSubmitted), Text: "Application Submitted"}},
	}
	return app, nil
}

// NewReference builds an opaque tracking reference: the scheme's initials,
// the year, and a random suffix.
func NewReference(schemeName string, now time.Time) string {
	var initials strings.Builder
	for _, word := range strings.Fields(schemeName) {
		r := []rune(word)[0]
		if unicode.IsLetter(r) && initials.Len() < 4 {
			initials.WriteRune(unicode.ToUpper(r))
		}
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s%d%s", initials.String(), now.Year(), suffix)
}

// Validate checks the record-level invariants.
func (a *Application) Validate() error {
	if !a.Status.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("unknown status %q", a.Status))
	}
	if a.Progress < 0 || a.Progress > 100 {
		return dErrors.New(dErrors.CodeInvariantViolation, "progress must be within 0..100")
	}
	if (a.Progress == 100) != (a.Status == StatusApproved) {
		return dErrors.New(dErrors.CodeInvariantViolation, "progress reaches 100 exactly when approved")
	}
	if a.RejectionReason != "" && a.Status != StatusRejected {
		return dErrors.New(dErrors.CodeInvariantViolation, "rejection reason set on a non-rejected application")
	}
	if len(a.Timeline) == 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "timeline cannot be empty")
	}
	return nil
}

// Transition is a reviewer's step on an application.
type Transition struct {
	To Status `json:"to"`
	// Event names the timeline step, e.g. "review" or "verification".
	// Defaults to the target status.
	Event    string `json:"event"`
	Text     string `json:"text"`
	Progress *int   `json:"progress,omitempty"`
	Reason   string `json:"reason,omitempty"`
	// NextPayment is the first disbursement date for an approval.
	NextPayment string `json:"next_payment,omitempty"`
}

var defaultEventText = map[Status]string{
	StatusProcessing: "Under Review",
	StatusApproved:   "Application Approved",
	StatusRejected:   "Application Rejected",
}

// Apply moves the application through t, dated now. On error the
// application is unchanged.
func (a *Application) Apply(t Transition, now time.Time) error {
	if !t.To.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown target status %q", t.To))
	}
	if !a.Status.CanTransitionTo(t.To) {
		return dErrors.New(dErrors.CodeConflict, fmt.Sprintf("cannot move application from %s to %s", a.Status, t.To))
	}

	progress := a.Progress
	if t.Progress != nil {
		progress = *t.Progress
	}
	if t.To == StatusApproved {
		progress = 100
	}
	if progress < a.Progress {
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("progress cannot go back from %d to %d", a.Progress, progress))
	}
	if t.To != StatusApproved && progress >= 100 {
		return dErrors.New(dErrors.CodeInvariantViolation, "only an approved application reaches 100% progress")
	}

	reason := strings.TrimSpace(t.Reason)
	if t.To == StatusRejected && reason == "" {
		return dErrors.New(dErrors.CodeValidation, "reason is required to reject an application")
	}
	if t.To != StatusRejected && reason != "" {
		return dErrors.New(dErrors.CodeValidation, "reason is only accepted when rejecting")
	}

	nextPayment := strings.TrimSpace(t.NextPayment)
	if nextPayment != "" {
		if t.To != StatusApproved {
			return dErrors.New(dErrors.CodeValidation, "next_payment is only accepted when approving")
		}
		if _, err := time.Parse(DateLayout, nextPayment); err != nil {
			return dErrors.New(dErrors.CodeValidation, "next_payment must be a YYYY-MM-DD date")
		}
	}

	event := strings.TrimSpace(t.Event)
	if event == "" {
		event = string(t.To)
	}
	text := strings.TrimSpace(t.Text)
	if text == "" {
		text = defaultEventText[t.To]
	}
	timeline, err := a.Timeline.Append(TimelineEvent{Date: FormatDate(now), Status: event, Text: text})
	if err != nil {
		return err
	}

	a.Status = t.To
	a.Progress = progress
	a.RejectionReason = reason
	a.NextPayment = nextPayment
	a.Timeline = timeline
	return nil
}

// Clone returns a deep copy.
func (a *Application) Clone() *Application {
	out := *a
	out.Documents = append([]string(nil), a.Documents...)
	out.Timeline = append(Timeline(nil), a.Timeline...)
	if out.Documents == nil {
		out.Documents = []string{}
	}
	return &out
}

// View is an application as the tracker renders it.
type View struct {
	*Application
	Indicator Indicator     `json:"indicator"`
	Timeline  []TimelineRow `json:"timeline"`
	Actions   []string      `json:"actions"`
}

// TimelineRow is a timeline event with its tone.
type TimelineRow struct {
	TimelineEvent
	Tone string `json:"tone"`
}

// Render decorates a for display.
func Render(a *Application) View {
	rows := make([]TimelineRow, 0, len(a.Timeline))
	for _, e := range a.Timeline {
		rows = append(rows, TimelineRow{TimelineEvent: e, Tone: TimelineTone(e.Status)})
	}
	return View{Application: a, Indicator: StatusIndicator(a.Status), Timeline: rows, Actions: Actions(a.Status)}
}

// Actions lists the follow-ups offered for an application in status s.
func Actions(s Status) []string {
	actions := []string{}
	switch s {
	case StatusApproved:
		actions = append(actions, "certificate")
	case StatusRejected:
		actions = append(actions, "retry", "escalate")
	case StatusProcessing:
		actions = append(actions, "escalate")
	}
	return actions
}
