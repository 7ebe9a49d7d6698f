package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/blake2b"

	"yojanamitra/internal/i18n"
	dErrors "yojanamitra/pkg/domain-errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("portal_language", func(fl validator.FieldLevel) bool {
		return i18n.IsSupportedLanguage(fl.Field().String())
	})
	_ = v.RegisterValidation("social_category", func(fl validator.FieldLevel) bool {
		return i18n.Has(i18n.VocabSocialCategory, fl.Field().String())
	})
	_ = v.RegisterValidation("education_level", func(fl validator.FieldLevel) bool {
		return i18n.Has(i18n.VocabEducation, fl.Field().String())
	})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

// Onboarding is the short first-visit form. Name, identity number and phone
// are required; location and language are optional.
type Onboarding struct {
	Name     string `json:"name" validate:"required,max=120"`
	Aadhaar  string `json:"aadhaar" validate:"required,max=32"`
	Phone    string `json:"phone" validate:"required,max=20"`
	Location string `json:"location" validate:"max=120"`
	Language string `json:"language" validate:"omitempty,portal_language"`
}

// Validate trims the form and checks the required fields.
func (o *Onboarding) Validate() error {
	o.Name = strings.TrimSpace(o.Name)
	o.Aadhaar = strings.TrimSpace(o.Aadhaar)
	o.Phone = strings.TrimSpace(o.Phone)
	o.Location = strings.TrimSpace(o.Location)
	o.Language = strings.TrimSpace(o.Language)
	return translate(validate.Struct(o))
}

// Record converts the form into a profile record over Defaults.
func (o Onboarding) Record() Record {
	r := Defaults()
	r.Name = o.Name
	r.Aadhaar = o.Aadhaar
	r.Phone = o.Phone
	r.Location = o.Location
	if o.Language != "" {
		r.Language = o.Language
	}
	return r
}

// editable mirrors Record with the write-time constraints of the full profile form.
type editable struct {
	Name       string `json:"name" validate:"max=120"`
	Aadhaar    string `json:"aadhaar" validate:"max=32"`
	Phone      string `json:"phone" validate:"max=20"`
	Location   string `json:"location" validate:"max=120"`
	Language   string `json:"language" validate:"omitempty,portal_language"`
	Income     string `json:"income" validate:"omitempty,numeric,max=15"`
	FamilySize string `json:"family_size" validate:"omitempty,numeric,max=3"`
	Occupation string `json:"occupation" validate:"max=120"`
	Category   string `json:"category" validate:"omitempty,social_category"`
	Education  string `json:"education" validate:"omitempty,education_level"`
}

// ValidateRecord checks a normalized record before it is saved.
// Blank fields are allowed; completion reflects them.
func ValidateRecord(r Record) error {
	return translate(validate.Struct(editable(r)))
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "profile validation failed")
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s is required", fe.Field()))
	case "max":
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
	case "numeric":
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be a number", fe.Field()))
	default:
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s has an unsupported value", fe.Field()))
	}
}

// Fingerprint is a stable, non-reversible tag for an identity number, safe for logs and events.
func Fingerprint(aadhaar string) string {
	if aadhaar == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(aadhaar))
	return fmt.Sprintf("%x", sum[:8])
}
