package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yojanamitra/internal/notify"
	profileservice "yojanamitra/internal/profile/service"
	profilestore "yojanamitra/internal/profile/store"
	"yojanamitra/internal/scheme"
	"yojanamitra/internal/scheme/service"
	"yojanamitra/internal/selection"
	"yojanamitra/pkg/testutil"
)

const sessionID = "0f8fad5b-d9cb-469f-a165-70867728950e"

func newSchemeRouter(t *testing.T) (http.Handler, *notify.Inbox) {
	t.Helper()
	inbox := notify.NewInbox(10)
	profiles := profileservice.New(profilestore.NewInMemory())
	svc := service.New(scheme.DefaultCatalog(), profiles, selection.NewInMemory(), service.WithNotifier(inbox))

	r := chi.NewRouter()
	r.Use(testutil.SessionMiddleware(sessionID))
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r, inbox
}

func TestSearchEndpoint(t *testing.T) {
	router, _ := newSchemeRouter(t)

	t.Run("filters by category", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/schemes?category=health&region=all"))
		testutil.AssertStatusOK(t, rr)

		res := testutil.UnmarshalResponse[service.SearchResult](t, rr)
		require.Len(t, res.Cards, 1)
		assert.Equal(t, "Ayushman Bharat - PMJAY", res.Cards[0].Name)
	})

	t.Run("empty result is an empty array", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/schemes?q=zzz"))
		testutil.AssertStatusOK(t, rr)
		assert.Contains(t, rr.Body.String(), `"schemes":[]`)
	})

	t.Run("unknown category is a bad request", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/schemes?category=mining"))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
	})
}

func TestGetEndpoint(t *testing.T) {
	router, _ := newSchemeRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/schemes/4"))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "name", "Pradhan Mantri Awas Yojana")

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/schemes/abc"))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/schemes/77"))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}

func TestApplyEndpoint(t *testing.T) {
	router, inbox := newSchemeRouter(t)

	t.Run("not eligible is a conflict with a notification", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/schemes/3/apply"))
		testutil.AssertStatusAndError(t, rr, http.StatusConflict, "not_eligible")

		pending := inbox.Drain(context.Background(), sessionID)
		require.Len(t, pending, 1)
		assert.Equal(t, notify.SeverityDestructive, pending[0].Severity)

		rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/schemes/selected"))
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})

	t.Run("eligible scheme is selected", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/schemes/2/apply"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "navigate_to", "applications")

		rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/schemes/selected"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "scheme_name", "Ayushman Bharat - PMJAY")
	})
}
