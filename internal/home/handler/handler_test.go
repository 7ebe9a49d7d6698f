package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appservice "yojanamitra/internal/application/service"
	appstore "yojanamitra/internal/application/store"
	"yojanamitra/internal/home"
	"yojanamitra/internal/notify"
	profilemodels "yojanamitra/internal/profile/models"
	profileservice "yojanamitra/internal/profile/service"
	profilestore "yojanamitra/internal/profile/store"
	"yojanamitra/internal/scheme"
	schemeservice "yojanamitra/internal/scheme/service"
	"yojanamitra/internal/selection"
	"yojanamitra/pkg/testutil"
)

const sessionID = "a4e8b2c6-1f3d-4b5a-9e7c-0d2f4a6b8c1e"

func TestHomeSummary(t *testing.T) {
	ctx := context.Background()
	inbox := notify.NewInbox(10)
	selections := selection.NewInMemory()
	profiles := profileservice.New(profilestore.NewInMemory(), profileservice.WithNotifier(inbox))
	schemes := schemeservice.New(scheme.DefaultCatalog(), profiles, selections, schemeservice.WithNotifier(inbox))
	apps := appservice.New(appstore.NewInMemory(), selections, appservice.WithNotifier(inbox))

	r := chi.NewRouter()
	r.Use(testutil.SessionMiddleware(sessionID))
	New(home.NewService(profiles, apps, schemes, inbox, nil)).Register(r)

	testutil.Scenario(t, "citizen applies after onboarding", func(t *testing.T) {
		testutil.Given(t, "an onboarded profile", func(t *testing.T) {
			_, err := profiles.Onboard(ctx, sessionID, profilemodels.Onboarding{
				Name: "Meena Devi", Aadhaar: "4321 8765 2109", Phone: "9123456780", Language: "hi",
			})
			require.NoError(t, err)
		})

		testutil.When(t, "they apply for Ayushman Bharat and submit", func(t *testing.T) {
			_, err := schemes.Apply(ctx, sessionID, 2)
			require.NoError(t, err)
			_, err = apps.Submit(ctx, sessionID)
			require.NoError(t, err)
		})

		testutil.Then(t, "the home view counts the open application", func(t *testing.T) {
			rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/home"))
			testutil.AssertStatusOK(t, rr)

			got := testutil.UnmarshalResponse[home.Summary](t, rr)
			assert.True(t, got.ProfileExists)
			assert.Equal(t, 1, got.Applications.All)
			assert.Equal(t, 1, got.Applications.Processing)
			assert.Equal(t, 4, got.EligibleSchemes)
			assert.Equal(t, 3, got.PendingNotifications, "welcome, proceeding and submitted")
		})
	})
}
