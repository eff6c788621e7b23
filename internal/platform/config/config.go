package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures process-level configuration. Values come from the
// environment so main stays lean; per-store discount policy lives in the
// policy store, not here.
type Config struct {
	Addr string

	// SessionTokenSecret signs/validates host session tokens on the
	// authoritative evaluate endpoint.
	SessionTokenSecret string

	// AdminSecretHash is the bcrypt hash guarding the policy admin endpoints.
	// Empty disables those endpoints entirely.
	AdminSecretHash string

	// BridgeKeyPrefix namespaces storage bridge keys. Every script on the
	// same origin using this prefix shares the validation context.
	BridgeKeyPrefix string

	// StrategyConfigPath optionally points at a YAML file overriding the
	// built-in detection selectors and strategy parameters.
	StrategyConfigPath string

	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
}

// RedisConfig holds connection settings for the redis-backed storage bridge.
// An empty URL means redis is not configured and the in-memory bridge is used.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig holds the policy store connection string. Empty means the
// in-memory policy store is used.
type PostgresConfig struct {
	URL string
}

// KafkaConfig holds audit pipeline settings. No brokers means audit events
// stay in the in-process store only.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// FromEnv builds a Config from environment variables with development
// defaults.
func FromEnv() Config {
	return Config{
		Addr:               getenv("DISCOUNTGATE_ADDR", ":8080"),
		SessionTokenSecret: getenv("SESSION_TOKEN_SECRET", "dev-secret-key-change-in-production"),
		AdminSecretHash:    os.Getenv("ADMIN_SECRET_HASH"),
		BridgeKeyPrefix:    getenv("BRIDGE_KEY_PREFIX", "newsletter_subscription_"),
		StrategyConfigPath: os.Getenv("STRATEGY_CONFIG"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getenvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getenvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getenvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getenvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getenvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(os.Getenv("KAFKA_BROKERS")),
			AuditTopic: getenv("AUDIT_TOPIC", "discountgate.audit.decisions"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
