package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	redisclient "yojanamitra/internal/platform/redis"
	"yojanamitra/internal/viewstate"
)

// maxUpdateRetries bounds optimistic retries when two requests race on one session.
const maxUpdateRetries = 5

// Redis stores view state as one JSON document per session.
type Redis struct {
	client *redisclient.Client
	ttl    time.Duration
}

func NewRedis(client *redisclient.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func stateKey(sessionID string) string {
	return redisclient.Key("viewstate", sessionID)
}

func decode(raw []byte) (viewstate.State, error) {
	st := viewstate.DefaultState()
	if err := json.Unmarshal(raw, &st); err != nil {
		return viewstate.DefaultState(), fmt.Errorf("decode view state: %w", err)
	}
	return st, nil
}

func (s *Redis) Load(ctx context.Context, sessionID string) (viewstate.State, error) {
	raw, err := s.client.Get(ctx, stateKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return viewstate.DefaultState(), nil
	}
	if err != nil {
		return viewstate.State{}, fmt.Errorf("load view state: %w", err)
	}
	return decode(raw)
}

// Update runs fn inside a WATCH/MULTI transaction and retries on conflict.
func (s *Redis) Update(ctx context.Context, sessionID string, fn func(*viewstate.State) error) (viewstate.State, error) {
	key := stateKey(sessionID)
	var result viewstate.State

	txf := func(tx *redis.Tx) error {
		st := viewstate.DefaultState()
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("load view state: %w", err)
		default:
			if st, err = decode(raw); err != nil {
				return err
			}
		}

		if err := fn(&st); err != nil {
			return err
		}
		encoded, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("encode view state: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		if err == nil {
			result = st
		}
		return err
	}

	for range maxUpdateRetries {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return viewstate.State{}, err
		}
		return result, nil
	}
	return viewstate.State{}, fmt.Errorf("update view state: too much contention on %s", key)
}
