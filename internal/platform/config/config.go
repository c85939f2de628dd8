// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server process needs at startup.
type Config struct {
	Addr          string
	LogLevel      string
	JWTSigningKey string

	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Trust    TrustConfig
}

// PostgresConfig holds database connection settings.
type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds cache connection settings. An empty URL disables the
// rating cache entirely.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	RatingTTL    time.Duration
}

// KafkaConfig holds signal-event consumer settings. Empty brokers disable
// the consumer; recalculation then happens only on the synchronous path.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	Group   string
}

// TrustConfig holds trust-engine tuning knobs.
type TrustConfig struct {
	// Strategy selects the aggregation formula: "mean" (default) or
	// "bayesian".
	Strategy string

	// WorkerCount bounds the async recalculation pool.
	WorkerCount int

	// QueueSize bounds the pending recalculation queue.
	QueueSize int
}

// FromEnv builds a Config from environment variables with development
// defaults. Production deployments override everything.
func FromEnv() Config {
	return Config{
		Addr:          envOr("VOUCH_ADDR", ":8080"),
		LogLevel:      envOr("VOUCH_LOG_LEVEL", "info"),
		JWTSigningKey: envOr("VOUCH_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		Postgres: PostgresConfig{
			DSN:             os.Getenv("VOUCH_POSTGRES_DSN"),
			MaxOpenConns:    envIntOr("VOUCH_POSTGRES_MAX_OPEN", 25),
			MaxIdleConns:    envIntOr("VOUCH_POSTGRES_MAX_IDLE", 5),
			ConnMaxLifetime: envDurationOr("VOUCH_POSTGRES_CONN_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("VOUCH_REDIS_URL"),
			PoolSize:     envIntOr("VOUCH_REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("VOUCH_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDurationOr("VOUCH_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("VOUCH_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("VOUCH_REDIS_WRITE_TIMEOUT", 3*time.Second),
			RatingTTL:    envDurationOr("VOUCH_RATING_CACHE_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers: envList("VOUCH_KAFKA_BROKERS"),
			Topic:   envOr("VOUCH_KAFKA_TOPIC", "trust.signal-events"),
			Group:   envOr("VOUCH_KAFKA_GROUP", "vouch-trust-engine"),
		},
		Trust: TrustConfig{
			Strategy:    envOr("VOUCH_TRUST_STRATEGY", "mean"),
			WorkerCount: envIntOr("VOUCH_TRUST_WORKERS", 4),
			QueueSize:   envIntOr("VOUCH_TRUST_QUEUE_SIZE", 256),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
