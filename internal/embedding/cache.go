package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/talentmatch/talent-match/internal/config"
)

// Cache stores embeddings keyed by input text. Implementations must be
// safe for concurrent use. A lookup failure is reported as a miss, never
// as an error, so a degraded cache backend does not block embedding.
type Cache interface {
	Get(ctx context.Context, text string) ([]float32, bool)
	Set(ctx context.Context, text string, embedding []float32)
	Size(ctx context.Context) int
}

// NewCache creates a cache backend from configuration.
func NewCache(cfg config.CacheConfig) (Cache, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemoryCache(cfg.Size), nil
	case "redis":
		return NewRedisCache(cfg.RedisURL, time.Duration(cfg.TTL)*time.Second)
	default:
		return nil, fmt.Errorf("unknown cache type: %s", cfg.Type)
	}
}
