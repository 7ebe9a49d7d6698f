// Package scheme holds the welfare scheme catalog and the pure filter over it.
package scheme

import (
	"fmt"
	"strings"

	dErrors "yojanamitra/pkg/domain-errors"
)

// Category is the closed set of scheme categories.
type Category string

const (
	CategoryAgriculture    Category = "agriculture"
	CategoryHealth         Category = "health"
	CategoryEducation      Category = "education"
	CategoryHousing        Category = "housing"
	CategorySocialSecurity Category = "social-security"
)

// CategoryAll is the filter wildcard; no scheme carries it.
const CategoryAll Category = "all"

var categories = []Category{CategoryAgriculture, CategoryHealth, CategoryEducation, CategoryHousing, CategorySocialSecurity}

// IsValid reports whether c is a concrete category.
func (c Category) IsValid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory parses a filter value; "" and "all" mean no restriction.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if c == "" || c == CategoryAll {
		return CategoryAll, nil
	}
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unsupported category %q", raw))
	}
	return c, nil
}

// Region is a region code. RegionAll on a scheme means it is available everywhere;
// on a query it means no restriction.
type Region string

const (
	RegionAll           Region = "all"
	RegionAndhraPradesh Region = "ap"
	RegionKarnataka     Region = "ka"
	RegionMaharashtra   Region = "mh"
	RegionTamilNadu     Region = "tn"
	RegionUttarPradesh  Region = "up"
)

var regions = []Region{RegionAndhraPradesh, RegionKarnataka, RegionMaharashtra, RegionTamilNadu, RegionUttarPradesh}

// IsValid reports whether r is a known region code or the universal sentinel.
func (r Region) IsValid() bool {
	if r == RegionAll {
		return true
	}
	for _, known := range regions {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRegion parses a filter value; "" and "all" mean no restriction.
func ParseRegion(raw string) (Region, error) {
	r := Region(strings.ToLower(strings.TrimSpace(raw)))
	if r == "" {
		return RegionAll, nil
	}
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unsupported region %q", raw))
	}
	return r, nil
}

// EligibilityStatus is the precomputed eligibility shown on a scheme card.
type EligibilityStatus string

const (
	Eligible    EligibilityStatus = "eligible"
	NotEligible EligibilityStatus = "not-eligible"
)

func (s EligibilityStatus) IsValid() bool {
	return s == Eligible || s == NotEligible
}

// Scheme is one catalog entry. Scheme values are never mutated after the
// catalog is built; accessors hand out copies.
type Scheme struct {
	ID                int               `json:"id"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	Benefits          string            `json:"benefits"`
	Category          Category          `json:"category"`
	Region            Region            `json:"region"`
	EligibilityText   string            `json:"eligibility"`
	RequiredDocuments []string          `json:"documents"`
	EligibilityStatus EligibilityStatus `json:"status"`
}

func (s Scheme) clone() Scheme {
	s.RequiredDocuments = append([]string(nil), s.RequiredDocuments...)
	return s
}

func (s Scheme) validate() error {
	switch {
	case s.ID <= 0:
		return dErrors.New(dErrors.CodeInvariantViolation, "scheme id must be positive")
	case strings.TrimSpace(s.Name) == "":
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("scheme %d has no name", s.ID))
	case !s.Category.IsValid():
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("scheme %d has unknown category %q", s.ID, s.Category))
	case !s.Region.IsValid():
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("scheme %d has unknown region %q", s.ID, s.Region))
	case !s.EligibilityStatus.IsValid():
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("scheme %d has unknown eligibility %q", s.ID, s.EligibilityStatus))
	}
	return nil
}
