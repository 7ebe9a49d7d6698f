package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	redisclient "yojanamitra/internal/platform/redis"
	"yojanamitra/pkg/requestcontext"
	"yojanamitra/pkg/testutil"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

type StoreSuite struct {
	suite.Suite
	newStore func(c *clock) Store
	clock    *clock
	store    Store
	ctx      context.Context
}

func (s *StoreSuite) SetupTest() {
	s.clock = &clock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	s.store = s.newStore(s.clock)
	s.ctx = context.Background()
}

func TestInMemoryStore(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func(c *clock) Store {
		st := NewInMemory()
		st.now = c.now
		return st
	}})
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redisclient.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	suite.Run(t, &StoreSuite{newStore: func(c *clock) Store {
		mr.FlushAll()
		st := NewRedis(client)
		st.now = c.now
		return st
	}})
}

func (s *StoreSuite) TestSlidingWindow() {
	for i := range 3 {
		res, err := s.store.Allow(s.ctx, "write:s1", 3, time.Minute)
		s.Require().NoError(err)
		s.True(res.Allowed)
		s.Equal(2-i, res.Remaining)
		s.clock.advance(10 * time.Second)
	}

	res, err := s.store.Allow(s.ctx, "write:s1", 3, time.Minute)
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.True(s.clock.t.Add(30*time.Second).Equal(res.ResetAt), "reset follows the oldest admission")

	other, err := s.store.Allow(s.ctx, "write:s2", 3, time.Minute)
	s.Require().NoError(err)
	s.True(other.Allowed, "sessions are limited independently")

	s.clock.advance(31 * time.Second)
	res, err = s.store.Allow(s.ctx, "write:s1", 3, time.Minute)
	s.Require().NoError(err)
	s.True(res.Allowed, "the oldest admission has left the window")
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 30, Result{ResetAt: now.Add(30 * time.Second)}.RetryAfter(now))
	assert.Equal(t, 1, Result{ResetAt: now}.RetryAfter(now))
}

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration) (Result, error) {
	return Result{}, errors.New("redis down")
}

func newLimitedHandler(store Store, opts ...Option) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := New(store, map[Class]Policy{
		ClassWrite: {Limit: 2, Window: time.Minute},
		ClassRead:  {Limit: 100, Window: time.Minute},
	}, logger, opts...)
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	return testutil.SessionMiddleware("6b1f0c52-7a0d-4d43-9b53-2f1e9c8a7d60")(m.Handler(ok))
}

func TestMiddleware(t *testing.T) {
	t.Run("limits writes per session", func(t *testing.T) {
		h := newLimitedHandler(NewInMemory())
		for range 2 {
			rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodPost, "/voice/sessions"))
			require.Equal(t, http.StatusNoContent, rr.Code)
			assert.NotEmpty(t, rr.Header().Get("X-RateLimit-Remaining"))
		}
		rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodPost, "/voice/sessions"))
		testutil.AssertStatusAndError(t, rr, http.StatusTooManyRequests, "rate_limit_exceeded")
		assert.NotEmpty(t, rr.Header().Get("Retry-After"))

		rr = testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/schemes"))
		assert.Equal(t, http.StatusNoContent, rr.Code, "reads have their own budget")
	})

	t.Run("rotating session ids share the client ip ceiling", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		m := New(NewInMemory(), map[Class]Policy{
			ClassRead: {Limit: 2, Window: time.Minute},
		}, logger, WithIPFactor(2))
		ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithClientMetadata(r.Context(), "203.0.113.7", "test")
			ctx = requestcontext.WithSessionID(ctx, uuid.NewString())
			m.Handler(ok).ServeHTTP(w, r.WithContext(ctx))
		})

		for i := range 4 {
			rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/schemes"))
			require.Equal(t, http.StatusNoContent, rr.Code, "request %d", i)
		}
		rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/schemes"))
		testutil.AssertStatusAndError(t, rr, http.StatusTooManyRequests, "rate_limit_exceeded")
	})

	t.Run("minted sessions count against the client ip", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		m := New(NewInMemory(), map[Class]Policy{
			ClassRead: {Limit: 2, Window: time.Minute},
		}, logger, WithIPFactor(0))
		ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithClientMetadata(r.Context(), "203.0.113.7", "test")
			ctx = requestcontext.WithNewSession(requestcontext.WithSessionID(ctx, uuid.NewString()))
			m.Handler(ok).ServeHTTP(w, r.WithContext(ctx))
		})

		for range 2 {
			rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/schemes"))
			require.Equal(t, http.StatusNoContent, rr.Code)
		}
		rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/schemes"))
		testutil.AssertStatus(t, rr, http.StatusTooManyRequests)
	})

	t.Run("store failure lets requests through", func(t *testing.T) {
		h := newLimitedHandler(failingStore{})
		rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodPost, "/applications"))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("disabled skips the store", func(t *testing.T) {
		h := newLimitedHandler(failingStore{}, WithDisabled(true))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, testutil.NewRequest(t, http.MethodPost, "/applications"))
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
	})
}
