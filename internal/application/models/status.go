package models

import (
	"fmt"

	dErrors "yojanamitra/pkg/domain-errors"
)

// Status is where an application sits in review.
type Status string

const (
	StatusSubmitted  Status = "submitted"
	StatusProcessing Status = "processing"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
)

// Statuses returns every status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusSubmitted, StatusProcessing, StatusApproved, StatusRejected}
}

func (s Status) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusProcessing, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransitionTo encodes submitted → processing → approved | rejected.
// Processing may repeat to record intermediate review steps, and a
// submission may be rejected before review starts.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusSubmitted:
		return next == StatusProcessing || next == StatusRejected
	case StatusProcessing:
		return next == StatusProcessing || next == StatusApproved || next == StatusRejected
	}
	return false
}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown application status %q", raw))
	}
	return s, nil
}

// Tab groups statuses the way the tracker presents them.
type Tab string

const (
	TabAll        Tab = "all"
	TabApproved   Tab = "approved"
	TabProcessing Tab = "processing"
	TabRejected   Tab = "rejected"
)

// ParseTab accepts a tab name; empty selects all.
func ParseTab(raw string) (Tab, error) {
	switch t := Tab(raw); t {
	case "":
		return TabAll, nil
	case TabAll, TabApproved, TabProcessing, TabRejected:
		return t, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown application tab %q", raw))
	}
}

// Statuses lists what the tab shows. Fresh submissions sit under processing.
func (t Tab) Statuses() []Status {
	switch t {
	case TabApproved:
		return []Status{StatusApproved}
	case TabProcessing:
		return []Status{StatusSubmitted, StatusProcessing}
	case TabRejected:
		return []Status{StatusRejected}
	}
	return nil
}

// Matches reports whether an application in status s belongs on the tab.
func (t Tab) Matches(s Status) bool {
	if t == TabAll {
		return true
	}
	for _, candidate := range t.Statuses() {
		if candidate == s {
			return true
		}
	}
	return false
}

// TabCounts are the tracker's summary figures.
type TabCounts struct {
	All        int `json:"all"`
	Approved   int `json:"approved"`
	Processing int `json:"processing"`
	Rejected   int `json:"rejected"`
}

// Count tallies statuses into tabs.
func Count(apps []*Application) TabCounts {
	var c TabCounts
	for _, a := range apps {
		c.All++
		switch {
		case TabApproved.Matches(a.Status):
			c.Approved++
		case TabProcessing.Matches(a.Status):
			c.Processing++
		case TabRejected.Matches(a.Status):
			c.Rejected++
		}
	}
	return c
}
