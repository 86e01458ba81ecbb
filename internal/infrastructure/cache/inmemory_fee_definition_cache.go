package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/fees"
	"go.uber.org/zap"
)

const (
	defaultCleanupInterval = 30 * time.Second
	defaultTTL             = 5 * time.Minute
)

// InMemoryFeeDefinitionCache implements FeeDefinitionCache using in-memory
// storage. Suitable for single-instance deployments and as an L1 in front
// of Redis.
type InMemoryFeeDefinitionCache struct {
	entries sync.Map // map[uuid.UUID]*cacheEntry
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

// cacheEntry wraps a cached definition with its expiration time
type cacheEntry struct {
	value     *fees.FeeDefinition
	expiresAt time.Time
}

func (e *cacheEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// NewInMemoryFeeDefinitionCache creates a new in-memory fee definition cache
func NewInMemoryFeeDefinitionCache(logger *zap.Logger) *InMemoryFeeDefinitionCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &InMemoryFeeDefinitionCache{
		logger: logger,
		stopCh: make(chan struct{}),
	}
	go c.cleanupExpired()
	return c
}

// Get retrieves a fee definition from cache
func (c *InMemoryFeeDefinitionCache) Get(_ context.Context, id uuid.UUID) (*fees.FeeDefinition, error) {
	if value, ok := c.entries.Load(id); ok {
		entry := value.(*cacheEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return entry.value, nil
		}
		c.entries.Delete(id)
	}
	atomic.AddInt64(&c.misses, 1)
	return nil, nil
}

// Set stores a fee definition in cache
func (c *InMemoryFeeDefinitionCache) Set(_ context.Context, definition *fees.FeeDefinition, ttl time.Duration) error {
	if definition == nil {
		return nil
	}
	if ttl == 0 {
		ttl = defaultTTL
	}
	c.entries.Store(definition.ID, &cacheEntry{
		value:     definition,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// Delete removes a fee definition from cache
func (c *InMemoryFeeDefinitionCache) Delete(_ context.Context, id uuid.UUID) error {
	c.entries.Delete(id)
	return nil
}

// Close stops the background cleanup goroutine
func (c *InMemoryFeeDefinitionCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns cache hit and miss counts
func (c *InMemoryFeeDefinitionCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// cleanupExpired periodically removes expired entries from the cache
func (c *InMemoryFeeDefinitionCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			removed := 0
			c.entries.Range(func(key, value any) bool {
				if value.(*cacheEntry).isExpired() {
					c.entries.Delete(key)
					removed++
				}
				return true
			})
			if removed > 0 {
				c.logger.Debug("cleaned up expired fee definition cache entries",
					zap.Int("removed", removed))
			}
		}
	}
}

// Ensure InMemoryFeeDefinitionCache implements FeeDefinitionCache
var _ FeeDefinitionCache = (*InMemoryFeeDefinitionCache)(nil)
