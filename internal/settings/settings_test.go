package settings

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"yojanamitra/internal/notify"
	redisclient "yojanamitra/internal/platform/redis"
	dErrors "yojanamitra/pkg/domain-errors"
	"yojanamitra/pkg/platform/sentinel"
)

func ptr[T any](v T) *T { return &v }

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, "en", d.Language)
	assert.Equal(t, 16, d.FontSize)
	assert.True(t, d.VoiceGuidance)
	assert.Equal(t, Channels{Push: true, Email: true, SMS: true}, d.Notifications)
	assert.True(t, d.Consents.DataSharing)
	assert.Equal(t, "private", d.ProfileVisibility)
	require.NoError(t, d.Validate())
}

func TestPatchApply(t *testing.T) {
	t.Run("only named fields change", func(t *testing.T) {
		got, err := Patch{
			FontSize:      ptr(20),
			DarkMode:      ptr(true),
			Notifications: &ChannelsPatch{WhatsApp: ptr(true)},
		}.Apply(Defaults())
		require.NoError(t, err)
		assert.Equal(t, 20, got.FontSize)
		assert.True(t, got.DarkMode)
		assert.True(t, got.Notifications.WhatsApp)
		assert.True(t, got.Notifications.Push)
		assert.Equal(t, "en", got.Language)
	})

	cases := map[string]Patch{
		"font below range":   {FontSize: ptr(10)},
		"font above range":   {FontSize: ptr(26)},
		"font off step":      {FontSize: ptr(17)},
		"unknown language":   {Language: ptr("fr")},
		"unknown visibility": {ProfileVisibility: ptr("friends")},
		"data sharing off":   {Consents: &ConsentsPatch{DataSharing: ptr(false)}},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := p.Apply(Defaults())
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), "got %v", err)
		})
	}
}

func TestPatchValidateRejectsConsentWithdrawal(t *testing.T) {
	p := Patch{Consents: &ConsentsPatch{DataSharing: ptr(false)}, Language: ptr(" hi ")}
	err := p.Validate()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	p = Patch{Language: ptr(" hi ")}
	require.NoError(t, p.Validate())
	assert.Equal(t, "hi", *p.Language)
	assert.False(t, p.Empty())
	assert.True(t, Patch{}.Empty())
}

func TestDecodeMergesOverDefaults(t *testing.T) {
	got, err := Decode([]byte(`{"language":"ta","font_size":22}`))
	require.NoError(t, err)
	assert.Equal(t, "ta", got.Language)
	assert.Equal(t, 22, got.FontSize)
	assert.True(t, got.VoiceGuidance)
	assert.Equal(t, "private", got.ProfileVisibility)
}

type store interface {
	Load(ctx context.Context, sessionID string) (Settings, error)
	Save(ctx context.Context, sessionID string, v Settings) error
}

type SettingsStoreSuite struct {
	suite.Suite
	newStore func() store
	store    store
	ctx      context.Context
}

func (s *SettingsStoreSuite) SetupTest() {
	s.store = s.newStore()
	s.ctx = context.Background()
}

func TestInMemorySettingsStore(t *testing.T) {
	suite.Run(t, &SettingsStoreSuite{newStore: func() store { return NewInMemory() }})
}

func TestRedisSettingsStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redisclient.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	suite.Run(t, &SettingsStoreSuite{newStore: func() store {
		mr.FlushAll()
		return NewRedis(client, time.Hour)
	}})
}

func (s *SettingsStoreSuite) TestRoundTrip() {
	s.Run("missing settings load as defaults", func() {
		got, err := s.store.Load(s.ctx, "s1")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
		s.Equal(Defaults(), got)
	})

	s.Run("saved settings come back", func() {
		v := Defaults()
		v.Language = "bn"
		v.HighContrast = true
		s.Require().NoError(s.store.Save(s.ctx, "s1", v))

		got, err := s.store.Load(s.ctx, "s1")
		s.Require().NoError(err)
		s.Equal(v, got)

		_, err = s.store.Load(s.ctx, "s2")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()
	inbox := notify.NewInbox(10)
	svc := NewService(NewInMemory(), WithNotifier(inbox))

	got, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), got)

	out, err := svc.Update(ctx, "s1", Patch{Language: ptr("hi"), FontSize: ptr(18)})
	require.NoError(t, err)
	assert.Equal(t, "hi", out.Settings.Language)
	assert.Equal(t, "Settings updated", out.Notification.Title)
	assert.Equal(t, "Your preferences have been saved.", out.Notification.Description)

	got, err = svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 18, got.FontSize)

	_, err = svc.Update(ctx, "s1", Patch{FontSize: ptr(30)})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	got, _ = svc.Get(ctx, "s1")
	assert.Equal(t, 18, got.FontSize)

	drained := inbox.Drain(ctx, "s1")
	require.Len(t, drained, 1)
}
