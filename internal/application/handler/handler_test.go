package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yojanamitra/internal/application/service"
	"yojanamitra/internal/application/store"
	"yojanamitra/internal/selection"
	"yojanamitra/pkg/testutil"
)

const sessionID = "5e0c6a9b-1f2d-4b8e-9c3a-7d6e5f4a3b21"

func newApplicationRouter(t *testing.T, seed bool) (http.Handler, *selection.InMemory) {
	t.Helper()
	selections := selection.NewInMemory()
	svc := service.New(store.NewInMemory(), selections, service.WithSampleSeeding(seed))

	r := chi.NewRouter()
	r.Use(testutil.SessionMiddleware(sessionID))
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r, selections
}

func TestListSeededApplications(t *testing.T) {
	router, _ := newApplicationRouter(t, true)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/applications"))
	testutil.AssertStatusOK(t, rr)
	res := testutil.UnmarshalResponse[service.ListResult](t, rr)
	assert.Equal(t, 3, res.Counts.All)
	assert.Len(t, res.Applications, 3)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/applications?status=approved"))
	testutil.AssertStatusOK(t, rr)
	res = testutil.UnmarshalResponse[service.ListResult](t, rr)
	require.Len(t, res.Applications, 1)
	assert.Equal(t, "PMK2024001234", res.Applications[0].Reference)
	assert.Equal(t, "green", res.Applications[0].Indicator.Tone)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/applications?status=archived"))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
}

func TestSubmitAndTrack(t *testing.T) {
	router, selections := newApplicationRouter(t, false)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/applications"))
	testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")

	require.NoError(t, selections.Save(context.Background(), sessionID, selection.Selection{
		SchemeID: 1, SchemeName: "PM-KISAN Samman Nidhi", Benefits: "₹6,000 per year",
		Documents: []string{"Aadhaar Card", "Land Records"}, SelectedAt: time.Now(),
	}))

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/applications"))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	out := testutil.UnmarshalResponse[service.Outcome](t, rr)
	id := out.Application.ID.String()
	assert.Equal(t, "applications", string(out.NavigateTo))

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/applications/"+id))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "status", "submitted")

	t.Run("transition", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/applications/"+id+"/transitions", map[string]any{"to": "processing", "progress": 40})
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusOK(t, rr)

		req = testutil.NewJSONRequest(t, http.MethodPost, "/applications/"+id+"/transitions", map[string]any{"to": "rejected"})
		rr = testutil.DoRequest(router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusUnprocessableEntity, "validation_error")

		req = testutil.NewJSONRequest(t, http.MethodPost, "/applications/"+id+"/transitions", map[string]any{"to": "processing", "progress": 20})
		rr = testutil.DoRequest(router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusConflict, "invariant_violation")

		req = testutil.NewJSONRequest(t, http.MethodPost, "/applications/"+id+"/transitions", map[string]any{"to": "processing", "progress": 140})
		rr = testutil.DoRequest(router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusUnprocessableEntity, "validation_error")
	})

	t.Run("placeholders", func(t *testing.T) {
		for _, action := range []string{"retry", "escalate", "certificate"} {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/applications/"+id+"/"+action))
			testutil.AssertStatus(t, rr, http.StatusAccepted)
			resp := testutil.UnmarshalResponse[NotificationResponse](t, rr)
			assert.Equal(t, "This feature will be available soon!", resp.Notification.Description)
		}
	})

	t.Run("bad ids", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/applications/42"))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")

		rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/applications/"+"00000000-0000-4000-8000-000000000000"))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})
}
