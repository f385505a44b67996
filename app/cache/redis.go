package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Store = (*RedisStore)(nil)

const keyPrefix = "sitemap"

// RedisStore keeps sitemap documents in Redis so that several server
// instances share one cache.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", addr, "db", db)

	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient adopts an existing client without pinging it.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// RedisKey renders the storage key for a sitemap document
func RedisKey(key Key) string {
	return fmt.Sprintf("%s:%s:%s:%d", keyPrefix, key.Kind, key.Type, key.Page)
}

func flushPattern(kind string) string {
	if kind == "" {
		return keyPrefix + ":*"
	}
	return fmt.Sprintf("%s:%s:*", keyPrefix, kind)
}

func (s *RedisStore) Get(ctx context.Context, key Key) (string, bool, error) {
	val, err := s.client.Get(ctx, RedisKey(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key Key, text string) error {
	if err := s.client.Set(ctx, RedisKey(key), text, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Flush removes matching keys with SCAN so that unrelated data sharing the
// Redis database is left alone.
func (s *RedisStore) Flush(ctx context.Context, kind string) error {
	var cursor uint64
	deleted := 0

	for {
		keys, next, err := s.client.Scan(ctx, cursor, flushPattern(kind), 500).Result()
		if err != nil {
			return fmt.Errorf("failed to scan sitemap keys: %w", err)
		}

		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete sitemap keys: %w", err)
			}
			deleted += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	slog.Debug("Flushed Redis sitemap cache", "kind", kind, "keys", deleted)
	return nil
}

func (s *RedisStore) Health() map[string]interface{} {
	health := map[string]interface{}{
		"status": "healthy",
		"type":   "redis",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.client.Ping(ctx).Err(); err != nil {
		health["status"] = "unhealthy"
		health["error"] = err.Error()
		return health
	}

	if dbSize, err := s.client.DBSize(ctx).Result(); err == nil {
		health["key_count"] = dbSize
	}

	return health
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
