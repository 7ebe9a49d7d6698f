package viewstate

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "yojanamitra/pkg/domain-errors"
)

type mapStore struct{ states map[string]State }

func (m *mapStore) Load(_ context.Context, id string) (State, error) {
	if st, ok := m.states[id]; ok {
		return st, nil
	}
	return DefaultState(), nil
}

func (m *mapStore) Update(ctx context.Context, id string, fn func(*State) error) (State, error) {
	st, _ := m.Load(ctx, id)
	if err := fn(&st); err != nil {
		return State{}, err
	}
	m.states[id] = st
	return st, nil
}

func newService() *Service {
	return NewService(&mapStore{states: map[string]State{}}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestParseField(t *testing.T) {
	f, err := ParseField("onboarding.name")
	require.NoError(t, err)
	assert.Equal(t, FieldOnboardingName, f)

	_, err = ParseField("profile.aadhaar")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestSetFieldReplacesValue(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	require.NoError(t, svc.SetField(ctx, "s1", FieldSchemeQuery, "awas"))
	require.NoError(t, svc.SetField(ctx, "s1", FieldSchemeQuery, "kisan"))
	require.NoError(t, svc.SetField(ctx, "s1", FieldOnboardingName, "Asha"))

	st, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "kisan", st.Get(FieldSchemeQuery))
	assert.Equal(t, "Asha", st.Get(FieldOnboardingName))

	err = svc.SetField(ctx, "s1", Field("nope"), "x")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestUpdateSchemesResetsBlankSelectors(t *testing.T) {
	st, err := newService().UpdateSchemes(context.Background(), "s1", SchemeSearch{Query: "pm"})
	require.NoError(t, err)
	assert.Equal(t, SchemeSearch{Query: "pm", Category: "all", Region: "all"}, st.Schemes)
}

func TestUpdateDraftDefaultsLanguage(t *testing.T) {
	st, err := newService().UpdateDraft(context.Background(), "s1", OnboardingDraft{Name: "Asha"})
	require.NoError(t, err)
	assert.Equal(t, "en", st.Onboarding.Language)
}
