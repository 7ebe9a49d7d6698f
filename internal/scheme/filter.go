package scheme

import "strings"

// Query is the search state of the scheme view. The zero Query matches everything.
type Query struct {
	Text     string   `json:"query"`
	Category Category `json:"category"`
	Region   Region   `json:"region"`
}

// NewQuery parses raw filter values.
func NewQuery(text, category, region string) (Query, error) {
	c, err := ParseCategory(category)
	if err != nil {
		return Query{}, err
	}
	r, err := ParseRegion(region)
	if err != nil {
		return Query{}, err
	}
	return Query{Text: text, Category: c, Region: r}, nil
}

// Filter returns the schemes that satisfy all three predicates, in input order.
// The result is never nil, so "no matches" is distinguishable from "not queried".
func Filter(schemes []Scheme, q Query) []Scheme {
	out := make([]Scheme, 0, len(schemes))
	needle := strings.ToLower(q.Text)
	for _, s := range schemes {
		if matchesText(s, needle) && matchesCategory(s, q.Category) && matchesRegion(s, q.Region) {
			out = append(out, s.clone())
		}
	}
	return out
}

// Filter applies Filter to the catalog.
func (c *Catalog) Filter(q Query) []Scheme {
	return Filter(c.schemes, q)
}

func matchesText(s Scheme, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Name), needle) ||
		strings.Contains(strings.ToLower(s.Description), needle)
}

func matchesCategory(s Scheme, c Category) bool {
	return c == "" || c == CategoryAll || s.Category == c
}

func matchesRegion(s Scheme, r Region) bool {
	return r == "" || r == RegionAll || s.Region == RegionAll || s.Region == r
}
