package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"timervid/config"
)

// RedisConfig configures the Redis connection and key layout
type RedisConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	Prefix   string // key prefix, one key per fingerprint
	TTL      time.Duration
}

// RedisLedger stores one key per rendered fingerprint
type RedisLedger struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisConfigFromEnv reads REDIS_ADDR, REDIS_PASS, REDIS_DB, LEDGER_KEY_PREFIX
// and LEDGER_TTL_SECONDS
func RedisConfigFromEnv() RedisConfig {
	cfg := RedisConfig{
		Addr:     config.GetEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASS"),
		Prefix:   config.GetEnvOrDefault("LEDGER_KEY_PREFIX", "timervid:rendered:"),
		TTL:      config.LedgerTTL,
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil && db >= 0 {
			cfg.DB = db
		}
	}
	if secs := config.GetEnvInt("LEDGER_TTL_SECONDS", 0); secs > 0 {
		cfg.TTL = time.Duration(secs) * time.Second
	}
	return cfg
}

// NewRedisLedgerFromEnv connects using RedisConfigFromEnv
func NewRedisLedgerFromEnv() (*RedisLedger, error) {
	return NewRedisLedger(RedisConfigFromEnv())
}

// NewRedisLedger creates a ledger and verifies connectivity
func NewRedisLedger(cfg RedisConfig) (*RedisLedger, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &RedisLedger{client: client, prefix: cfg.Prefix, ttl: cfg.TTL}, nil
}

// Close closes the underlying Redis client
func (r *RedisLedger) Close() error {
	return r.client.Close()
}

// Seen checks for the fingerprint key. A hit refreshes the TTL so that
// timers re-rendered on a schedule stay remembered.
func (r *RedisLedger) Seen(ctx context.Context, fingerprint string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	key := r.prefix + fingerprint
	_, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if r.ttl > 0 {
		if err := r.client.Expire(ctx, key, r.ttl).Err(); err != nil {
			log.Printf("⚠️  Failed to refresh TTL of %s: %v", key, err)
		}
	}
	return true, nil
}

// Record stores the output path under the fingerprint key
func (r *RedisLedger) Record(ctx context.Context, fingerprint, output string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.client.Set(ctx, r.prefix+fingerprint, output, r.ttl).Err()
}
