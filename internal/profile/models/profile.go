package models

import (
	"encoding/json"
	"math"
	"strings"
)

// DefaultLanguage applies when a profile has never chosen one.
const DefaultLanguage = "en"

// Record is the citizen profile. All attributes are free text at rest; the
// closed vocabularies (language, category, education) are enforced on write.
type Record struct {
	Name       string `json:"name"`
	Aadhaar    string `json:"aadhaar"`
	Phone      string `json:"phone"`
	Location   string `json:"location"`
	Language   string `json:"language"`
	Income     string `json:"income"`
	FamilySize string `json:"family_size"`
	Occupation string `json:"occupation"`
	Category   string `json:"category"`
	Education  string `json:"education"`
}

// Field is one named profile attribute.
type Field struct {
	Name  string
	Value string
}

// Fields returns the attributes in their fixed completion order.
func (r Record) Fields() []Field {
	return []Field{
		{"name", r.Name},
		{"aadhaar", r.Aadhaar},
		{"phone", r.Phone},
		{"location", r.Location},
		{"language", r.Language},
		{"income", r.Income},
		{"family_size", r.FamilySize},
		{"occupation", r.Occupation},
		{"category", r.Category},
		{"education", r.Education},
	}
}

// Completion is round(100 * filled / total) over Fields, where a field counts
// as filled when it is non-blank after trimming.
func Completion(r Record) int {
	fields := r.Fields()
	filled := 0
	for _, f := range fields {
		if strings.TrimSpace(f.Value) != "" {
			filled++
		}
	}
	return int(math.Round(100 * float64(filled) / float64(len(fields))))
}

// MissingFields lists the blank attributes in completion order.
func MissingFields(r Record) []string {
	missing := []string{}
	for _, f := range r.Fields() {
		if strings.TrimSpace(f.Value) == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// Defaults is the record every loaded profile is merged over.
func Defaults() Record {
	return Record{Language: DefaultLanguage}
}

// Decode merges a stored, possibly partial or older-shaped record over Defaults.
// Keys present in raw win, including empty strings; unknown keys are ignored.
func Decode(raw []byte) (Record, error) {
	r := Defaults()
	if len(raw) == 0 {
		return r, nil
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return Defaults(), err
	}
	return r, nil
}

// Normalize trims every attribute.
func (r Record) Normalize() Record {
	r.Name = strings.TrimSpace(r.Name)
	r.Aadhaar = strings.TrimSpace(r.Aadhaar)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Location = strings.TrimSpace(r.Location)
	r.Language = strings.TrimSpace(r.Language)
	r.Income = strings.TrimSpace(r.Income)
	r.FamilySize = strings.TrimSpace(r.FamilySize)
	r.Occupation = strings.TrimSpace(r.Occupation)
	r.Category = strings.TrimSpace(r.Category)
	r.Education = strings.TrimSpace(r.Education)
	return r
}
