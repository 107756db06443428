package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/talentmatch/talent-match/internal/pkg/hash"
)

const redisKeyPrefix = "tm:embed:"

// RedisCache provides Redis-backed persistence for embeddings so repeated
// ingests and evaluation runs survive process restarts.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration // zero means no expiry
}

// NewRedisCache creates a Redis cache backend.
// Returns error if connection fails.
func NewRedisCache(url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &RedisCache{
		client: client,
		ttl:    ttl,
	}, nil
}

// Get retrieves an embedding from Redis. Backend errors count as a miss.
func (c *RedisCache) Get(ctx context.Context, text string) ([]float32, bool) {
	key := redisKeyPrefix + hash.SHA256String(text)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var embedding []float32
	if err := json.Unmarshal(data, &embedding); err != nil {
		return nil, false
	}

	return embedding, true
}

// Set stores an embedding in Redis with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, text string, embedding []float32) {
	key := redisKeyPrefix + hash.SHA256String(text)

	data, err := json.Marshal(embedding)
	if err != nil {
		return
	}

	c.client.Set(ctx, key, data, c.ttl)
}

// Size returns the number of cached embeddings.
func (c *RedisCache) Size(ctx context.Context) int {
	var count int

	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}

	return count
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
