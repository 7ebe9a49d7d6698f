package handler

import (
	"strings"

	"yojanamitra/internal/application/models"
	dErrors "yojanamitra/pkg/domain-errors"
)

// TransitionRequest is the HTTP request body for POST /applications/{id}/transitions.
type TransitionRequest struct {
	To          string `json:"to"`
	Event       string `json:"event"`
	Text        string `json:"text"`
	Progress    *int   `json:"progress"`
	Reason      string `json:"reason"`
	NextPayment string `json:"next_payment"`

	parsedStatus models.Status
}

// Validate validates and parses the request.
func (r *TransitionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Text) > 200 || len(r.Reason) > 500 || len(r.Event) > 40 {
		return dErrors.New(dErrors.CodeValidation, "text, reason or event is too long")
	}

	r.To = strings.TrimSpace(r.To)
	if r.To == "" {
		return dErrors.New(dErrors.CodeValidation, "to is required")
	}
	status, err := models.ParseStatus(r.To)
	if err != nil {
		return err
	}
	r.parsedStatus = status

	if r.Progress != nil && (*r.Progress < 0 || *r.Progress > 100) {
		return dErrors.New(dErrors.CodeValidation, "progress must be between 0 and 100")
	}
	return nil
}

// Transition returns the validated transition.
func (r *TransitionRequest) Transition() models.Transition {
	return models.Transition{
		To:          r.parsedStatus,
		Event:       r.Event,
		Text:        r.Text,
		Progress:    r.Progress,
		Reason:      r.Reason,
		NextPayment: r.NextPayment,
	}
}
