// Package i18n is a static label lookup for the closed vocabularies the portal
// displays. There is no message catalogue or plural handling; unknown
// languages and keys fall back to English, then to the raw value.
package i18n

import "strings"

// Vocabulary names a closed set of values with display labels.
type Vocabulary string

const (
	VocabLanguage          Vocabulary = "language"
	VocabSchemeCategory    Vocabulary = "scheme_category"
	VocabRegion            Vocabulary = "region"
	VocabSocialCategory    Vocabulary = "social_category"
	VocabEducation         Vocabulary = "education"
	VocabApplicationStatus Vocabulary = "application_status"
	VocabRoute             Vocabulary = "route"
	VocabVisibility        Vocabulary = "visibility"
)

// Fallback is used when a language has no entry for a label.
const Fallback = "en"

// Option is a value and its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ordered vocabularies; the order is the display order.
var vocabularies = map[Vocabulary][]Option{
	VocabLanguage: {
		{"en", "English"},
		{"hi", "हिंदी (Hindi)"},
		{"ta", "தமிழ் (Tamil)"},
		{"te", "తెలుగు (Telugu)"},
		{"bn", "বাংলা (Bengali)"},
		{"mr", "मराठी (Marathi)"},
		{"gu", "ગુજરાતી (Gujarati)"},
		{"kn", "ಕನ್ನಡ (Kannada)"},
		{"ml", "മലയാളം (Malayalam)"},
		{"pa", "ਪੰਜਾਬੀ (Punjabi)"},
		{"or", "ଓଡ଼ିଆ (Odia)"},
		{"as", "অসমীয়া (Assamese)"},
	},
	VocabSchemeCategory: {
		{"all", "All Categories"},
		{"agriculture", "Agriculture"},
		{"health", "Health"},
		{"education", "Education"},
		{"housing", "Housing"},
		{"social-security", "Social Security"},
	},
	VocabRegion: {
		{"all", "All States"},
		{"ap", "Andhra Pradesh"},
		{"ka", "Karnataka"},
		{"mh", "Maharashtra"},
		{"tn", "Tamil Nadu"},
		{"up", "Uttar Pradesh"},
	},
	VocabSocialCategory: {
		{"general", "General"},
		{"obc", "OBC"},
		{"sc", "SC"},
		{"st", "ST"},
		{"ews", "EWS"},
	},
	VocabEducation: {
		{"no-formal", "No Formal Education"},
		{"primary", "Primary"},
		{"secondary", "Secondary"},
		{"higher-secondary", "Higher Secondary"},
		{"graduate", "Graduate"},
		{"post-graduate", "Post Graduate"},
	},
	VocabApplicationStatus: {
		{"submitted", "Submitted"},
		{"processing", "Processing"},
		{"approved", "Approved"},
		{"rejected", "Rejected"},
	},
	VocabRoute: {
		{"home", "Home"},
		{"profile", "Profile"},
		{"schemes", "Schemes"},
		{"applications", "Applications"},
		{"settings", "Settings"},
	},
	VocabVisibility: {
		{"private", "Private"},
		{"public", "Public"},
	},
}

// translations overrides English labels per language, keyed by vocabulary then value.
var translations = map[string]map[Vocabulary]map[string]string{
	"hi": {
		VocabRoute: {
			"home":         "होम",
			"profile":      "प्रोफ़ाइल",
			"schemes":      "योजनाएं",
			"applications": "आवेदन",
			"settings":     "सेटिंग्स",
		},
		VocabSchemeCategory: {
			"all":             "सभी श्रेणियां",
			"agriculture":     "कृषि",
			"health":          "स्वास्थ्य",
			"education":       "शिक्षा",
			"housing":         "आवास",
			"social-security": "सामाजिक सुरक्षा",
		},
		VocabApplicationStatus: {
			"submitted":  "जमा किया गया",
			"processing": "प्रक्रिया में",
			"approved":   "स्वीकृत",
			"rejected":   "अस्वीकृत",
		},
	},
}

// Vocabularies lists every vocabulary name.
func Vocabularies() []Vocabulary {
	return []Vocabulary{
		VocabLanguage, VocabSchemeCategory, VocabRegion, VocabSocialCategory,
		VocabEducation, VocabApplicationStatus, VocabRoute, VocabVisibility,
	}
}

// Options returns the vocabulary's values with labels in lang, in display order.
// Returns nil for an unknown vocabulary.
func Options(vocab Vocabulary, lang string) []Option {
	base, ok := vocabularies[vocab]
	if !ok {
		return nil
	}
	out := make([]Option, len(base))
	for i, o := range base {
		out[i] = Option{Value: o.Value, Label: Label(vocab, o.Value, lang)}
	}
	return out
}

// Label returns the display label for value. Language-specific labels win,
// then English, then the raw value itself.
func Label(vocab Vocabulary, value, lang string) string {
	if byVocab, ok := translations[normalizeLang(lang)]; ok {
		if label, ok := byVocab[vocab][value]; ok {
			return label
		}
	}
	for _, o := range vocabularies[vocab] {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// Has reports whether value belongs to the vocabulary.
func Has(vocab Vocabulary, value string) bool {
	for _, o := range vocabularies[vocab] {
		if o.Value == value {
			return true
		}
	}
	return false
}

// IsSupportedLanguage reports whether code is one of the portal's languages.
func IsSupportedLanguage(code string) bool {
	return Has(VocabLanguage, code)
}

// SpeechLocale is the recognizer locale hint for a portal language.
// Hindi gets hi-IN; every other language is captured as Indian English.
func SpeechLocale(lang string) string {
	if normalizeLang(lang) == "hi" {
		return "hi-IN"
	}
	return "en-IN"
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return Fallback
	}
	return lang
}
