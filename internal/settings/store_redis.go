package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	redisclient "yojanamitra/internal/platform/redis"
	"yojanamitra/pkg/platform/sentinel"
)

// Redis keeps one JSON settings document per session.
type Redis struct {
	client *redisclient.Client
	ttl    time.Duration
}

func NewRedis(client *redisclient.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func settingsKey(sessionID string) string {
	return redisclient.Key("settings", sessionID)
}

func (s *Redis) Load(ctx context.Context, sessionID string) (Settings, error) {
	raw, err := s.client.Get(ctx, settingsKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Defaults(), sentinel.ErrNotFound
	}
	if err != nil {
		return Defaults(), fmt.Errorf("load settings: %w", err)
	}
	v, err := Decode(raw)
	if err != nil {
		return Defaults(), fmt.Errorf("decode settings: %w", err)
	}
	return v, nil
}

func (s *Redis) Save(ctx context.Context, sessionID string, v Settings) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.client.Set(ctx, settingsKey(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
