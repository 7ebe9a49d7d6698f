// Package viewstate keeps the per-session state of the portal's forms, so a
// reload or a voice transcript lands in the same place the citizen left off.
package viewstate

import (
	"fmt"

	dErrors "yojanamitra/pkg/domain-errors"
)

// SchemeSearch is the scheme view's filter inputs, stored as entered.
type SchemeSearch struct {
	Query    string `json:"query"`
	Category string `json:"category"`
	Region   string `json:"region"`
}

// OnboardingDraft is the unsubmitted first-visit form.
type OnboardingDraft struct {
	Name     string `json:"name"`
	Aadhaar  string `json:"aadhaar"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Language string `json:"language"`
}

// State is everything the session's views hold between requests.
type State struct {
	Schemes    SchemeSearch    `json:"schemes"`
	Onboarding OnboardingDraft `json:"onboarding"`
}

// Field addresses a single text input that a transcript may replace.
type Field string

const (
	FieldSchemeQuery    Field = "schemes.query"
	FieldOnboardingName Field = "onboarding.name"
)

// ParseField validates a field name.
func ParseField(raw string) (Field, error) {
	switch f := Field(raw); f {
	case FieldSchemeQuery, FieldOnboardingName:
		return f, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unsupported field %q", raw))
	}
}

// Set replaces the field's value.
func (s *State) Set(f Field, value string) error {
	switch f {
	case FieldSchemeQuery:
		s.Schemes.Query = value
	case FieldOnboardingName:
		s.Onboarding.Name = value
	default:
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unsupported field %q", f))
	}
	return nil
}

// Get reads the field's value.
func (s State) Get(f Field) string {
	switch f {
	case FieldSchemeQuery:
		return s.Schemes.Query
	case FieldOnboardingName:
		return s.Onboarding.Name
	}
	return ""
}

// DefaultState is the state of a session that has never touched a form.
func DefaultState() State {
	return State{
		Schemes:    SchemeSearch{Category: "all", Region: "all"},
		Onboarding: OnboardingDraft{Language: "en"},
	}
}
