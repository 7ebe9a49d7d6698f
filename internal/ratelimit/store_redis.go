package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	redisclient "yojanamitra/internal/platform/redis"
)

// Redis keeps each window as a sorted set of admission times in microseconds,
// shared by all replicas. Under contention a rejected request holds its slot
// until it is removed, so a burst may admit fewer than limit but never more.
type Redis struct {
	client *redisclient.Client
	now    func() time.Time
}

func NewRedis(client *redisclient.Client) *Redis {
	return &Redis{client: client, now: time.Now}
}

func (s *Redis) Allow(ctx context.Context, k string, limit int, window time.Duration) (Result, error) {
	now := s.now()
	rkey := redisclient.Key("ratelimit", k)
	member := strconv.FormatInt(now.UnixMicro(), 10) + "-" + uuid.NewString()
	cutoff := strconv.FormatInt(now.Add(-window).UnixMicro(), 10)

	var card *redis.IntCmd
	var oldest *redis.ZSliceCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZRemRangeByScore(ctx, rkey, "-inf", cutoff)
		p.ZAdd(ctx, rkey, redis.Z{Score: float64(now.UnixMicro()), Member: member})
		card = p.ZCard(ctx, rkey)
		oldest = p.ZRangeWithScores(ctx, rkey, 0, 0)
		p.PExpire(ctx, rkey, window)
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("rate limit window: %w", err)
	}

	reset := now.Add(window)
	if z := oldest.Val(); len(z) > 0 {
		reset = time.UnixMicro(int64(z[0].Score)).Add(window)
	}

	count := int(card.Val())
	if count > limit {
		if err := s.client.ZRem(ctx, rkey, member).Err(); err != nil {
			return Result{}, fmt.Errorf("rate limit rollback: %w", err)
		}
		return Result{Allowed: false, Limit: limit, ResetAt: reset}, nil
	}
	return Result{Allowed: true, Limit: limit, Remaining: limit - count, ResetAt: reset}, nil
}
