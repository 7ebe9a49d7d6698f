package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"yojanamitra/internal/profile/models"
	redisclient "yojanamitra/internal/platform/redis"
	"yojanamitra/pkg/platform/sentinel"
)

// Redis persists profiles as JSON documents. Loads merge the stored document
// over the current defaults, so older or partial documents still load.
type Redis struct {
	client *redisclient.Client
	ttl    time.Duration
}

// NewRedis builds a Redis profile store. ttl <= 0 keeps profiles forever.
func NewRedis(client *redisclient.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func profileKey(sessionID string) string {
	return redisclient.Key("profile", sessionID)
}

func (s *Redis) Load(ctx context.Context, sessionID string) (models.Record, error) {
	raw, err := s.client.Get(ctx, profileKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Defaults(), sentinel.ErrNotFound
	}
	if err != nil {
		return models.Defaults(), fmt.Errorf("load profile: %w", err)
	}
	r, err := models.Decode(raw)
	if err != nil {
		return models.Defaults(), fmt.Errorf("decode profile: %w", err)
	}
	return r, nil
}

func (s *Redis) Save(ctx context.Context, sessionID string, r models.Record) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, profileKey(sessionID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
