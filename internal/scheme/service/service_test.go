package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"yojanamitra/internal/navigation"
	"yojanamitra/internal/notify"
	notifymocks "yojanamitra/internal/notify/mocks"
	"yojanamitra/internal/profile/models"
	"yojanamitra/internal/scheme"
	"yojanamitra/internal/scheme/service/mocks"
	"yojanamitra/internal/selection"
	"yojanamitra/internal/viewstate"
	dErrors "yojanamitra/pkg/domain-errors"
	"yojanamitra/pkg/platform/sentinel"
	"yojanamitra/pkg/requestcontext"
)

type SchemeServiceSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	profiles   *mocks.MockProfileReader
	selections *mocks.MockSelectionStore
	views      *mocks.MockSearchStateReader
	sink       *notifymocks.MockSink
	service    *Service
	ctx        context.Context
	now        time.Time
}

func (s *SchemeServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.profiles = mocks.NewMockProfileReader(s.ctrl)
	s.selections = mocks.NewMockSelectionStore(s.ctrl)
	s.views = mocks.NewMockSearchStateReader(s.ctrl)
	s.sink = notifymocks.NewMockSink(s.ctrl)
	s.service = New(scheme.DefaultCatalog(), s.profiles, s.selections,
		WithNotifier(s.sink),
		WithSearchState(s.views),
	)
	s.now = time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.profiles.EXPECT().Record(gomock.Any(), gomock.Any()).Return(models.Defaults(), nil).AnyTimes()
}

func (s *SchemeServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestSchemeServiceSuite(t *testing.T) {
	suite.Run(t, new(SchemeServiceSuite))
}

func (s *SchemeServiceSuite) TestSearch() {
	s.Run("health category yields one eligible card", func() {
		res, err := s.service.Search(s.ctx, "s1", scheme.Query{Category: scheme.CategoryHealth, Region: scheme.RegionAll})
		s.Require().NoError(err)
		s.Require().Len(res.Cards, 1)
		s.Equal("Ayushman Bharat - PMJAY", res.Cards[0].Name)
		s.Equal(scheme.Eligible, res.Cards[0].Decision.Status)
		s.Equal(1, res.Total)
	})

	s.Run("no matches is an empty non-nil list", func() {
		res, err := s.service.Search(s.ctx, "s1", scheme.Query{Text: "metro rail"})
		s.Require().NoError(err)
		s.NotNil(res.Cards)
		s.Empty(res.Cards)
	})
}

func (s *SchemeServiceSuite) TestSearchViewUsesStoredFilters() {
	st := viewstate.DefaultState()
	st.Schemes.Query = "PM"
	s.views.EXPECT().Get(gomock.Any(), "s1").Return(st, nil)

	res, err := s.service.SearchView(s.ctx, "s1")
	s.Require().NoError(err)
	s.Len(res.Cards, 3)
	s.Equal("PM", res.Query.Text)
}

func (s *SchemeServiceSuite) TestSearchViewRejectsCorruptFilters() {
	st := viewstate.DefaultState()
	st.Schemes.Category = "mining"
	s.views.EXPECT().Get(gomock.Any(), "s1").Return(st, nil)

	_, err := s.service.SearchView(s.ctx, "s1")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *SchemeServiceSuite) TestApply() {
	s.Run("eligible scheme is selected and navigates to applications", func() {
		s.selections.EXPECT().Save(gomock.Any(), "s1", selection.Selection{
			SchemeID:   1,
			SchemeName: "PM-KISAN Samman Nidhi",
			Benefits:   "₹6,000/year",
			Documents:  []string{"Aadhaar", "Bank Account", "Land Records"},
			SelectedAt: s.now,
		}).Return(nil)
		s.sink.EXPECT().Notify(gomock.Any(), "s1", notify.Info("Proceeding to Application", "Starting application for PM-KISAN Samman Nidhi"))

		out, err := s.service.Apply(s.ctx, "s1", 1)
		s.Require().NoError(err)
		s.Equal(navigation.RouteApplications, out.NavigateTo)
		s.Equal(1, out.Selection.SchemeID)
	})

	s.Run("not eligible scheme notifies and writes nothing", func() {
		s.sink.EXPECT().Notify(gomock.Any(), "s1", notify.Destructive("Not Eligible", "You don't meet the eligibility criteria for this scheme."))

		out, err := s.service.Apply(s.ctx, "s1", 3)
		s.Nil(out)
		s.True(dErrors.HasCode(err, dErrors.CodeNotEligible))
	})

	s.Run("unknown scheme is not found", func() {
		_, err := s.service.Apply(s.ctx, "s1", 99)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("store failure is internal and not announced", func() {
		s.selections.EXPECT().Save(gomock.Any(), "s1", gomock.Any()).Return(errors.New("redis down"))

		_, err := s.service.Apply(s.ctx, "s1", 2)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *SchemeServiceSuite) TestCustomEvaluatorDecides() {
	svc := New(scheme.DefaultCatalog(), s.profiles, s.selections, WithEvaluator(denyAll{}), WithNotifier(s.sink))
	s.sink.EXPECT().Notify(gomock.Any(), "s1", gomock.Any())

	_, err := svc.Apply(s.ctx, "s1", 1)
	s.True(dErrors.HasCode(err, dErrors.CodeNotEligible))
}

func (s *SchemeServiceSuite) TestSelected() {
	s.Run("missing selection is not found", func() {
		s.selections.EXPECT().Load(gomock.Any(), "s1").Return(selection.Selection{}, sentinel.ErrNotFound)
		_, err := s.service.Selected(s.ctx, "s1")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("returns stored selection", func() {
		s.selections.EXPECT().Load(gomock.Any(), "s1").Return(selection.Selection{SchemeID: 4}, nil)
		sel, err := s.service.Selected(s.ctx, "s1")
		s.Require().NoError(err)
		s.Equal(4, sel.SchemeID)
	})
}

type denyAll struct{}

func (denyAll) Evaluate(context.Context, models.Record, scheme.Scheme) scheme.Decision {
	return scheme.Decision{Status: scheme.NotEligible, Reason: "rules_pending"}
}
