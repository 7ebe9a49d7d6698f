package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("YM_ADDR", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "ym_session", cfg.SessionCookie)
	assert.Empty(t, cfg.Redis.URL)
	assert.Nil(t, cfg.Kafka.Brokers)
	assert.Equal(t, "yojanamitra.notifications", cfg.Kafka.NotificationTopic)
	assert.Equal(t, 30*24*time.Hour, cfg.Redis.StateTTL)
	assert.Equal(t, RateLimitConfig{ReadPerMinute: 300, WritePerMinute: 60, IPFactor: 4}, cfg.RateLimit)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("YM_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092,")
	t.Setenv("REDIS_POOL_SIZE", "not-a-number")
	t.Setenv("SESSION_STATE_TTL", "2h")
	t.Setenv("SEED_SAMPLE_APPLICATIONS", "true")
	t.Setenv("RATE_LIMIT_WRITES_PER_MINUTE", "10")
	t.Setenv("RATE_LIMIT_DISABLED", "true")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 2*time.Hour, cfg.Redis.StateTTL)
	assert.True(t, cfg.SeedSamples)
	assert.Equal(t, 10, cfg.RateLimit.WritePerMinute)
	assert.True(t, cfg.RateLimit.Disabled)
}
