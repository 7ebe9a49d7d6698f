package selection

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

// Redis stores the selection as a JSON value per session.
type Redis struct {
	client *redisclient.Client
	ttl    time.Duration
}

func NewRedis(client *redisclient.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func selectionKey(sessionID string) string {
	return redisclient.Key("selection", sessionID)
}

func (s *Redis) Save(ctx context.Context, sessionID string, sel Selection) error {
	raw, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}
	if err := s.client.Set(ctx, selectionKey(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	return nil
}

func (s *Redis) Load(ctx context.Context, sessionID string) (Selection, error) {
	raw, err := s.client.Get(ctx, selectionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Selection{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Selection{}, fmt.Errorf("load selection: %w", err)
	}
	var sel Selection
	if err := json.Unmarshal(raw, &sel); err != nil {
		return Selection{}, fmt.Errorf("decode selection: %w", err)
	}
	return sel, nil
}

func (s *Redis) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, selectionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear selection: %w", err)
	}
	return nil
}
