package scheme

import (
	"fmt"

	dErrors "yojanamitra/pkg/domain-errors"
)

// Catalog is the fixed, ordered set of schemes. It has no mutators.
type Catalog struct {
	schemes []Scheme
	byID    map[int]int
}

// NewCatalog validates the schemes and freezes them in the given order.
func NewCatalog(schemes []Scheme) (*Catalog, error) {
	c := &Catalog{
		schemes: make([]Scheme, 0, len(schemes)),
		byID:    make(map[int]int, len(schemes)),
	}
	for _, s := range schemes {
		if err := s.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("duplicate scheme id %d", s.ID))
		}
		c.byID[s.ID] = len(c.schemes)
		c.schemes = append(c.schemes, s.clone())
	}
	return c, nil
}

// All returns a copy of every scheme in catalog order.
func (c *Catalog) All() []Scheme {
	out := make([]Scheme, len(c.schemes))
	for i, s := range c.schemes {
		out[i] = s.clone()
	}
	return out
}

// Get returns a copy of the scheme with the given id.
func (c *Catalog) Get(id int) (Scheme, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Scheme{}, false
	}
	return c.schemes[i].clone(), true
}

// Len is the number of schemes.
func (c *Catalog) Len() int {
	return len(c.schemes)
}

// DefaultCatalog is the built-in catalog served by the portal.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultSchemes)
	if err != nil {
		panic(fmt.Sprintf("default catalog: %v", err))
	}
	return c
}

var defaultSchemes = []Scheme{
	{
		ID:                1,
		Name:              "PM-KISAN Samman Nidhi",
		Description:       "Financial assistance of ₹6,000 per year for small and marginal farmers",
		Benefits:          "₹6,000/year",
		Category:          CategoryAgriculture,
		Region:            RegionAll,
		EligibilityText:   "Small and marginal farmers with cultivable land up to 2 hectares",
		RequiredDocuments: []string{"Aadhaar", "Bank Account", "Land Records"},
		EligibilityStatus: Eligible,
	},
	{
		ID:                2,
		Name:              "Ayushman Bharat - PMJAY",
		Description:       "Health insurance coverage of up to ₹5 lakh per family per year",
		Benefits:          "₹5 lakh insurance",
		Category:          CategoryHealth,
		Region:            RegionAll,
		EligibilityText:   "Families covered under SECC-2011 (rural) and occupational criteria (urban)",
		RequiredDocuments: []string{"Aadhaar", "Ration Card", "Income Certificate"},
		EligibilityStatus: Eligible,
	},
	{
		ID:                3,
		Name:              "PM Scholarship Scheme",
		Description:       "Scholarships for children of Ex-Servicemen and Ex-Coast Guard personnel",
		Benefits:          "Up to ₹3,000/month",
		Category:          CategoryEducation,
		Region:            RegionAll,
		EligibilityText:   "Children of Ex-Servicemen, studying in professional courses",
		RequiredDocuments: []string{"Educational Certificates", "Ex-Servicemen Certificate", "Income Certificate"},
		EligibilityStatus: NotEligible,
	},
	{
		ID:                4,
		Name:              "Pradhan Mantri Awas Yojana",
		Description:       "Housing for all scheme providing financial assistance for home construction",
		Benefits:          "Up to ₹2.67 lakh subsidy",
		Category:          CategoryHousing,
		Region:            RegionAll,
		EligibilityText:   "EWS, LIG, and MIG families without pucca house",
		RequiredDocuments: []string{"Income Certificate", "Property Papers", "Bank Account"},
		EligibilityStatus: Eligible,
	},
	{
		ID:                5,
		Name:              "National Social Assistance Programme",
		Description:       "Social security for elderly, widows, and disabled persons",
		Benefits:          "₹200-₹300/month",
		Category:          CategorySocialSecurity,
		Region:            RegionAll,
		EligibilityText:   "Senior citizens (60+), widows, disabled persons below poverty line",
		RequiredDocuments: []string{"Age Proof", "Income Certificate", "Disability Certificate (if applicable)"},
		EligibilityStatus: Eligible,
	},
}
