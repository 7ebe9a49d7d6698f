package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"yojanamitra/internal/settings"
	"yojanamitra/pkg/testutil"
)

const sessionID = "0f4c7a2e-1d3b-4a5e-9c8d-7b6a5f4e3d2c"

func newSettingsRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.Use(testutil.SessionMiddleware(sessionID))
	New(settings.NewService(settings.NewInMemory(), settings.WithLogger(logger)), logger).Register(r)
	return r
}

func TestGetSettingsDefaults(t *testing.T) {
	router := newSettingsRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/settings"))
	testutil.AssertStatusOK(t, rr)
	got := testutil.UnmarshalResponse[settings.Settings](t, rr)
	assert.Equal(t, settings.Defaults(), *got)
}

func TestPatchSettings(t *testing.T) {
	router := newSettingsRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPatch, "/settings",
		`{"font_size":22,"notifications":{"whatsapp":true},"consents":{"analytics":false}}`))
	testutil.AssertStatusOK(t, rr)
	out := testutil.UnmarshalResponse[settings.Outcome](t, rr)
	assert.Equal(t, 22, out.Settings.FontSize)
	assert.True(t, out.Settings.Notifications.WhatsApp)
	assert.False(t, out.Settings.Consents.Analytics)
	testutil.AssertNotification(t, rr, "Settings updated")

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/settings"))
	got := testutil.UnmarshalResponse[settings.Settings](t, rr)
	assert.Equal(t, 22, got.FontSize)
}

func TestPatchSettingsRejections(t *testing.T) {
	router := newSettingsRouter(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"withdraw required consent", `{"consents":{"data_sharing":false}}`, http.StatusUnprocessableEntity, "validation_error"},
		{"font size off step", `{"font_size":15}`, http.StatusUnprocessableEntity, "validation_error"},
		{"unsupported language", `{"language":"de"}`, http.StatusUnprocessableEntity, "validation_error"},
		{"unknown field", `{"theme":"solar"}`, http.StatusBadRequest, "bad_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPatch, "/settings", tt.body))
			testutil.AssertStatusAndError(t, rr, tt.status, tt.code)
		})
	}
}
