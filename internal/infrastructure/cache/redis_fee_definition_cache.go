package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/schoolerp/backend/internal/domain/fees"
	"github.com/schoolerp/backend/internal/infrastructure/config"
)

const feeDefinitionKeyPrefix = "billing:feedef:"

// RedisFeeDefinitionCache implements FeeDefinitionCache using Redis.
// Suitable for deployments where several instances share cache state.
type RedisFeeDefinitionCache struct {
	client *redis.Client
}

// NewRedisFeeDefinitionCache creates a Redis-backed fee definition cache
func NewRedisFeeDefinitionCache(cfg config.RedisConfig) (*RedisFeeDefinitionCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisFeeDefinitionCache{client: client}, nil
}

// NewRedisFeeDefinitionCacheWithClient creates a cache around an existing
// Redis client. Useful for tests and for sharing one client across components.
func NewRedisFeeDefinitionCacheWithClient(client *redis.Client) *RedisFeeDefinitionCache {
	return &RedisFeeDefinitionCache{client: client}
}

func feeDefinitionKey(id uuid.UUID) string {
	return feeDefinitionKeyPrefix + id.String()
}

// Get retrieves a fee definition from Redis
func (c *RedisFeeDefinitionCache) Get(ctx context.Context, id uuid.UUID) (*fees.FeeDefinition, error) {
	data, err := c.client.Get(ctx, feeDefinitionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read fee definition from cache: %w", err)
	}

	var definition fees.FeeDefinition
	if err := json.Unmarshal(data, &definition); err != nil {
		// A corrupt entry behaves like a miss; the repository is the source
		// of truth.
		return nil, nil
	}
	return &definition, nil
}

// Set stores a fee definition in Redis with the given TTL
func (c *RedisFeeDefinitionCache) Set(ctx context.Context, definition *fees.FeeDefinition, ttl time.Duration) error {
	if definition == nil {
		return nil
	}
	if ttl == 0 {
		ttl = defaultTTL
	}

	data, err := json.Marshal(definition)
	if err != nil {
		return fmt.Errorf("failed to marshal fee definition: %w", err)
	}
	if err := c.client.Set(ctx, feeDefinitionKey(definition.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache fee definition: %w", err)
	}
	return nil
}

// Delete removes a fee definition from Redis
func (c *RedisFeeDefinitionCache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, feeDefinitionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete cached fee definition: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisFeeDefinitionCache) Close() error {
	return c.client.Close()
}

// Ensure RedisFeeDefinitionCache implements FeeDefinitionCache
var _ FeeDefinitionCache = (*RedisFeeDefinitionCache)(nil)
