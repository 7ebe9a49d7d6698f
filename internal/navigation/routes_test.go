package navigation

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutes(t *testing.T) {
	assert.Equal(t, "/applications", RouteApplications.Path())
	assert.True(t, RouteHome.Valid())
	assert.False(t, Route("admin").Valid())
	assert.Equal(t, "", Route("admin").Path())

	r, ok := Resolve("/settings")
	require.True(t, ok)
	assert.Equal(t, RouteSettings, r)

	_, ok = Resolve("/applications/1")
	assert.False(t, ok)
}

func TestMenuLabels(t *testing.T) {
	menu := Menu("en")
	require.Len(t, menu, 5)
	assert.Equal(t, MenuItem{Route: RouteHome, Path: "/", Label: "Home"}, menu[0])

	hi := Menu("hi")
	assert.Equal(t, "योजनाएं", hi[2].Label)
}

func TestHandlerUsesSessionLanguage(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(func(context.Context) string { return "hi" }, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/routes", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Routes []MenuItem `json:"routes"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "होम", body.Routes[0].Label)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/labels?lang=en", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var labels struct {
		Language     string                     `json:"language"`
		Vocabularies map[string][]map[string]any `json:"vocabularies"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&labels))
	assert.Equal(t, "en", labels.Language)
	assert.Len(t, labels.Vocabularies["language"], 12)
	assert.Len(t, labels.Vocabularies["region"], 6)
}
