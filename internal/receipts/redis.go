package receipts

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "usersync:receipt:"

// NewRedisClient initializes a redis client.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RedisStore keeps receipts in redis with a TTL, shared by every replica.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Seen(ctx context.Context, deliveryID string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+deliveryID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check receipt: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Mark(ctx context.Context, deliveryID string) error {
	processedAt := time.Now().UTC().Format(time.RFC3339)
	if err := s.client.Set(ctx, keyPrefix+deliveryID, processedAt, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to mark receipt: %w", err)
	}
	return nil
}

// Ping checks the redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
