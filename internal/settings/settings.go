// Package settings holds the citizen's portal preferences: language,
// accessibility, notification channels and privacy consents.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"yojanamitra/internal/i18n"
	dErrors "yojanamitra/pkg/domain-errors"
)

const (
	MinFontSize  = 12
	MaxFontSize  = 24
	FontSizeStep = 2
)

// Channels are the notification channels a citizen can opt into.
type Channels struct {
	Push     bool `json:"push"`
	Email    bool `json:"email"`
	SMS      bool `json:"sms"`
	WhatsApp bool `json:"whatsapp"`
}

// Consents are the data-use permissions. DataSharing is required to use the
// portal and cannot be withdrawn here.
type Consents struct {
	DataSharing     bool `json:"data_sharing"`
	Analytics       bool `json:"analytics"`
	Personalization bool `json:"personalization"`
}

// Settings is the full preference set for one session.
type Settings struct {
	Language          string   `json:"language" validate:"required,portal_language"`
	FontSize          int      `json:"font_size" validate:"min=12,max=24,font_step"`
	HighContrast      bool     `json:"high_contrast"`
	DarkMode          bool     `json:"dark_mode"`
	VoiceGuidance     bool     `json:"voice_guidance"`
	Notifications     Channels `json:"notifications"`
	Consents          Consents `json:"consents"`
	ProfileVisibility string   `json:"profile_visibility" validate:"oneof=private public"`
}

// Defaults are the preferences of a session that never opened settings.
func Defaults() Settings {
	return Settings{
		Language:          i18n.Fallback,
		FontSize:          16,
		VoiceGuidance:     true,
		Notifications:     Channels{Push: true, Email: true, SMS: true},
		Consents:          Consents{DataSharing: true, Analytics: true, Personalization: true},
		ProfileVisibility: "private",
	}
}

// Decode reads a stored document over Defaults so documents written before a
// field existed still load.
func Decode(raw []byte) (Settings, error) {
	s := Defaults()
	if err := json.Unmarshal(raw, &s); err != nil {
		return Defaults(), err
	}
	return s, nil
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	Language          *string        `json:"language"`
	FontSize          *int           `json:"font_size"`
	HighContrast      *bool          `json:"high_contrast"`
	DarkMode          *bool          `json:"dark_mode"`
	VoiceGuidance     *bool          `json:"voice_guidance"`
	Notifications     *ChannelsPatch `json:"notifications"`
	Consents          *ConsentsPatch `json:"consents"`
	ProfileVisibility *string        `json:"profile_visibility"`
}

type ChannelsPatch struct {
	Push     *bool `json:"push"`
	Email    *bool `json:"email"`
	SMS      *bool `json:"sms"`
	WhatsApp *bool `json:"whatsapp"`
}

type ConsentsPatch struct {
	DataSharing     *bool `json:"data_sharing"`
	Analytics       *bool `json:"analytics"`
	Personalization *bool `json:"personalization"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p == Patch{}
}

// Validate rejects a patch that tries to withdraw the required consent.
func (p *Patch) Validate() error {
	if p.Consents != nil && p.Consents.DataSharing != nil && !*p.Consents.DataSharing {
		return dErrors.New(dErrors.CodeValidation, "data_sharing consent is required and cannot be withdrawn")
	}
	if p.Language != nil {
		trimmed := strings.TrimSpace(*p.Language)
		p.Language = &trimmed
	}
	return nil
}

// Apply returns s with the patch applied and validated.
func (p Patch) Apply(s Settings) (Settings, error) {
	set(&s.Language, p.Language)
	set(&s.FontSize, p.FontSize)
	set(&s.HighContrast, p.HighContrast)
	set(&s.DarkMode, p.DarkMode)
	set(&s.VoiceGuidance, p.VoiceGuidance)
	set(&s.ProfileVisibility, p.ProfileVisibility)
	if c := p.Notifications; c != nil {
		set(&s.Notifications.Push, c.Push)
		set(&s.Notifications.Email, c.Email)
		set(&s.Notifications.SMS, c.SMS)
		set(&s.Notifications.WhatsApp, c.WhatsApp)
	}
	if c := p.Consents; c != nil {
		set(&s.Consents.DataSharing, c.DataSharing)
		set(&s.Consents.Analytics, c.Analytics)
		set(&s.Consents.Personalization, c.Personalization)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Validate checks the full preference set.
func (s Settings) Validate() error {
	if !s.Consents.DataSharing {
		return dErrors.New(dErrors.CodeValidation, "data_sharing consent is required and cannot be withdrawn")
	}
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "settings validation failed")
	}
	fe := verrs[0]
	switch fe.Field() {
	case "font_size":
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("font_size must be between %d and %d in steps of %d", MinFontSize, MaxFontSize, FontSizeStep))
	case "profile_visibility":
		return dErrors.New(dErrors.CodeValidation, "profile_visibility must be private or public")
	default:
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s has an unsupported value", fe.Field()))
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("portal_language", func(fl validator.FieldLevel) bool {
		return i18n.IsSupportedLanguage(fl.Field().String())
	})
	_ = v.RegisterValidation("font_step", func(fl validator.FieldLevel) bool {
		return (fl.Field().Int()-MinFontSize)%FontSizeStep == 0
	})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}
