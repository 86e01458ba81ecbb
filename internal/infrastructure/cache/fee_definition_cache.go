package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/fees"
)

// FeeDefinitionCache caches authored fee definitions. Definitions change
// rarely but are read on every schedule generation, so a short TTL covers
// most reads without making authoring feel stale.
//
// Get returns (nil, nil) on a cache miss; a non-nil error means the cache
// backend itself failed and callers should fall through to the repository.
type FeeDefinitionCache interface {
	Get(ctx context.Context, id uuid.UUID) (*fees.FeeDefinition, error)
	Set(ctx context.Context, definition *fees.FeeDefinition, ttl time.Duration) error
	Delete(ctx context.Context, id uuid.UUID) error
	Close() error
}
