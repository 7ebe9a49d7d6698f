package scheme

import (
	"context"

	"yojanamitra/internal/profile/models"
)

// Decision is the outcome of evaluating a profile against a scheme.
type Decision struct {
	Status EligibilityStatus `json:"status"`
	Reason string            `json:"reason"`
}

// Eligible reports whether the citizen may apply.
func (d Decision) Eligible() bool {
	return d.Status == Eligible
}

const (
	ReasonPrecomputedEligible    = "precomputed_eligible"
	ReasonPrecomputedNotEligible = "precomputed_not_eligible"
)

// Evaluator decides eligibility for a profile and scheme. It is the seam
// where a rules engine would plug in; the filter never calls it.
type Evaluator interface {
	Evaluate(ctx context.Context, profile models.Record, s Scheme) Decision
}

// StaticEvaluator echoes the scheme's precomputed status and ignores the profile.
type StaticEvaluator struct{}

func (StaticEvaluator) Evaluate(_ context.Context, _ models.Record, s Scheme) Decision {
	if s.EligibilityStatus == Eligible {
		return Decision{Status: Eligible, Reason: ReasonPrecomputedEligible}
	}
	return Decision{Status: NotEligible, Reason: ReasonPrecomputedNotEligible}
}
