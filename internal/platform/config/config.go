package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	LogLevel      string
	LogFormat     string
	SessionCookie string
	// SeedSamples seeds the demo applications into each new browsing session.
	SeedSamples bool

	HTTP      HTTPConfig
	Redis     RedisConfig
	Postgres  PostgresConfig
	Kafka     KafkaConfig
	RateLimit RateLimitConfig
}

// HTTPConfig bounds the server's connection timeouts.
type HTTPConfig struct {
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// RedisConfig configures the optional Redis backend for session-scoped stores.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// StateTTL bounds how long an idle browsing session keeps its state.
	StateTTL time.Duration
}

// PostgresConfig configures the optional Postgres backend for applications.
type PostgresConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// KafkaConfig configures the optional Kafka notification sink.
type KafkaConfig struct {
	Brokers           []string
	NotificationTopic string
	Partitions        int32
	ReplicationFactor int16
}

// RateLimitConfig bounds requests per session per minute. Zero disables a class.
type RateLimitConfig struct {
	Disabled       bool
	ReadPerMinute  int
	WritePerMinute int
	// IPFactor multiplies a class limit into the ceiling shared by one client IP.
	IPFactor int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:          envOr("YM_ADDR", ":8080"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		LogFormat:     envOr("LOG_FORMAT", "text"),
		SessionCookie: envOr("SESSION_COOKIE", "ym_session"),
		SeedSamples:   os.Getenv("SEED_SAMPLE_APPLICATIONS") == "true",
		HTTP: HTTPConfig{
			ReadHeaderTimeout: envDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       envDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      envDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:       envDuration("HTTP_IDLE_TIMEOUT", 2*time.Minute),
			ShutdownTimeout:   envDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			StateTTL:     envDuration("SESSION_STATE_TTL", 30*24*time.Hour),
		},
		Postgres: PostgresConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:           splitList(os.Getenv("KAFKA_BROKERS")),
			NotificationTopic: envOr("NOTIFICATION_TOPIC", "yojanamitra.notifications"),
			Partitions:        int32(envInt("NOTIFICATION_TOPIC_PARTITIONS", 3)),
			ReplicationFactor: int16(envInt("NOTIFICATION_TOPIC_REPLICATION", 1)),
		},
		RateLimit: RateLimitConfig{
			Disabled:       os.Getenv("RATE_LIMIT_DISABLED") == "true",
			ReadPerMinute:  envInt("RATE_LIMIT_READS_PER_MINUTE", 300),
			WritePerMinute: envInt("RATE_LIMIT_WRITES_PER_MINUTE", 60),
			IPFactor:       envInt("RATE_LIMIT_IP_FACTOR", 4),
		},
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
