package scheme

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yojanamitra/internal/profile/models"
	dErrors "yojanamitra/pkg/domain-errors"
)

func names(schemes []Scheme) []string {
	out := make([]string, len(schemes))
	for i, s := range schemes {
		out[i] = s.Name
	}
	return out
}

func TestFilterScenarios(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		name     string
		query    Query
		expected []string
	}{
		{
			name:  "zero query returns whole catalog in order",
			query: Query{},
			expected: []string{
				"PM-KISAN Samman Nidhi", "Ayushman Bharat - PMJAY", "PM Scholarship Scheme",
				"Pradhan Mantri Awas Yojana", "National Social Assistance Programme",
			},
		},
		{
			name:     "category health",
			query:    Query{Category: CategoryHealth, Region: RegionAll},
			expected: []string{"Ayushman Bharat - PMJAY"},
		},
		{
			name:     "text matches name case-insensitively",
			query:    Query{Text: "pm"},
			expected: []string{"PM-KISAN Samman Nidhi", "Ayushman Bharat - PMJAY", "PM Scholarship Scheme"},
		},
		{
			name:     "text matches description",
			query:    Query{Text: "INSURANCE"},
			expected: []string{"Ayushman Bharat - PMJAY"},
		},
		{
			name: "specific region still sees universal schemes",
			query: Query{Region: RegionKarnataka},
			expected: []string{
				"PM-KISAN Samman Nidhi", "Ayushman Bharat - PMJAY", "PM Scholarship Scheme",
				"Pradhan Mantri Awas Yojana", "National Social Assistance Programme",
			},
		},
		{
			name:     "conjunction of predicates can be empty",
			query:    Query{Text: "pm", Category: CategoryHousing},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := catalog.Filter(tt.query)
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, names(got))
		})
	}
}

// Every combination of text, category and region is checked against the
// three predicates directly.
func TestFilterPredicatesExhaustively(t *testing.T) {
	regional := []Scheme{
		{ID: 10, Name: "Rythu Bandhu", Description: "Input support for farmers", Category: CategoryAgriculture, Region: RegionAndhraPradesh, EligibilityStatus: Eligible},
		{ID: 11, Name: "Amma Unavagam", Description: "Subsidised canteens", Category: CategorySocialSecurity, Region: RegionTamilNadu, EligibilityStatus: NotEligible},
	}
	catalog, err := NewCatalog(append(DefaultCatalog().All(), regional...))
	require.NoError(t, err)
	all := catalog.All()

	texts := []string{"", "pm", "FARM", "yojana", "zzz", "₹"}
	cats := append([]Category{CategoryAll}, categories...)
	regs := append([]Region{RegionAll}, regions...)

	for _, text := range texts {
		for _, c := range cats {
			for _, r := range regs {
				q := Query{Text: text, Category: c, Region: r}
				got := catalog.Filter(q)
				require.NotNil(t, got)

				var want []string
				for _, s := range all {
					textOK := text == "" ||
						strings.Contains(strings.ToLower(s.Name), strings.ToLower(text)) ||
						strings.Contains(strings.ToLower(s.Description), strings.ToLower(text))
					catOK := c == CategoryAll || s.Category == c
					regOK := r == RegionAll || s.Region == RegionAll || s.Region == r
					if textOK && catOK && regOK {
						want = append(want, s.Name)
					}
				}
				if want == nil {
					want = []string{}
				}
				assert.Equal(t, want, names(got), "query %+v", q)
				assert.Equal(t, names(got), names(catalog.Filter(q)), "filter must be deterministic")
				assert.Equal(t, names(got), names(Filter(got, q)), "refiltering must not change the result")
			}
		}
	}
}

func TestFilterResultsDoNotAliasCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	got := catalog.Filter(Query{Category: CategoryAgriculture})
	require.Len(t, got, 1)

	got[0].Name = "changed"
	got[0].RequiredDocuments[0] = "changed"

	again, ok := catalog.Get(1)
	require.True(t, ok)
	assert.Equal(t, "PM-KISAN Samman Nidhi", again.Name)
	assert.Equal(t, "Aadhaar", again.RequiredDocuments[0])
}

func TestNewCatalogValidates(t *testing.T) {
	valid := Scheme{ID: 1, Name: "A", Category: CategoryHealth, Region: RegionAll, EligibilityStatus: Eligible}

	tests := []struct {
		name    string
		schemes []Scheme
	}{
		{name: "duplicate id", schemes: []Scheme{valid, valid}},
		{name: "unknown category", schemes: []Scheme{{ID: 2, Name: "B", Category: "mining", Region: RegionAll, EligibilityStatus: Eligible}}},
		{name: "wildcard category on a scheme", schemes: []Scheme{{ID: 2, Name: "B", Category: CategoryAll, Region: RegionAll, EligibilityStatus: Eligible}}},
		{name: "unknown region", schemes: []Scheme{{ID: 2, Name: "B", Category: CategoryHealth, Region: "xx", EligibilityStatus: Eligible}}},
		{name: "unknown status", schemes: []Scheme{{ID: 2, Name: "B", Category: CategoryHealth, Region: RegionAll, EligibilityStatus: "maybe"}}},
		{name: "missing name", schemes: []Scheme{{ID: 2, Category: CategoryHealth, Region: RegionAll, EligibilityStatus: Eligible}}},
		{name: "non-positive id", schemes: []Scheme{{ID: 0, Name: "C", Category: CategoryHealth, Region: RegionAll, EligibilityStatus: Eligible}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.schemes)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		})
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, 5, c.Len())

	s, ok := c.Get(3)
	require.True(t, ok)
	assert.Equal(t, NotEligible, s.EligibilityStatus)

	_, ok = c.Get(42)
	assert.False(t, ok)
}

func TestNewQuery(t *testing.T) {
	q, err := NewQuery("kisan", "", "ALL")
	require.NoError(t, err)
	assert.Equal(t, Query{Text: "kisan", Category: CategoryAll, Region: RegionAll}, q)

	q, err = NewQuery("", " Social-Security ", "tn")
	require.NoError(t, err)
	assert.Equal(t, CategorySocialSecurity, q.Category)
	assert.Equal(t, RegionTamilNadu, q.Region)

	_, err = NewQuery("", "mining", "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = NewQuery("", "", "goa")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestStaticEvaluatorEchoesPrecomputedStatus(t *testing.T) {
	ev := StaticEvaluator{}
	catalog := DefaultCatalog()
	profile := models.Record{Name: "Asha", Income: "90000"}

	for _, s := range catalog.All() {
		d := ev.Evaluate(context.Background(), profile, s)
		assert.Equal(t, s.EligibilityStatus, d.Status)
		assert.Equal(t, s.EligibilityStatus == Eligible, d.Eligible())
	}

	scholarship, _ := catalog.Get(3)
	assert.Equal(t, ReasonPrecomputedNotEligible, ev.Evaluate(context.Background(), models.Record{}, scholarship).Reason)
}
