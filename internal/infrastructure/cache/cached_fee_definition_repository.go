package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/fees"
	"go.uber.org/zap"
)

// CachedFeeDefinitionRepository decorates a FeeDefinitionRepository with a
// read-through cache. Cache failures are logged and degrade to repository
// reads; they never fail the request.
type CachedFeeDefinitionRepository struct {
	inner  fees.FeeDefinitionRepository
	cache  FeeDefinitionCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedFeeDefinitionRepository wraps the given repository with a cache
func NewCachedFeeDefinitionRepository(
	inner fees.FeeDefinitionRepository,
	cache FeeDefinitionCache,
	ttl time.Duration,
	logger *zap.Logger,
) *CachedFeeDefinitionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedFeeDefinitionRepository{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// FindByID reads through the cache, falling back to the inner repository
func (r *CachedFeeDefinitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*fees.FeeDefinition, error) {
	cached, err := r.cache.Get(ctx, id)
	if err != nil {
		r.logger.Warn("fee definition cache read failed",
			zap.String("id", id.String()), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	definition, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, definition, r.ttl); err != nil {
		r.logger.Warn("fee definition cache write failed",
			zap.String("id", id.String()), zap.Error(err))
	}
	return definition, nil
}

// FindByIDs resolves each ID through the cache and batches the misses into
// one repository call.
func (r *CachedFeeDefinitionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]fees.FeeDefinition, error) {
	found := make(map[uuid.UUID]fees.FeeDefinition, len(ids))
	var missing []uuid.UUID

	for _, id := range ids {
		cached, err := r.cache.Get(ctx, id)
		if err != nil {
			r.logger.Warn("fee definition cache read failed",
				zap.String("id", id.String()), zap.Error(err))
		}
		if cached != nil {
			found[id] = *cached
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		loaded, err := r.inner.FindByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for i := range loaded {
			definition := loaded[i]
			found[definition.ID] = definition
			if err := r.cache.Set(ctx, &definition, r.ttl); err != nil {
				r.logger.Warn("fee definition cache write failed",
					zap.String("id", definition.ID.String()), zap.Error(err))
			}
		}
	}

	// Preserve input order; unknown IDs stay absent, matching the inner
	// repository's contract.
	definitions := make([]fees.FeeDefinition, 0, len(found))
	seen := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		if definition, ok := found[id]; ok {
			definitions = append(definitions, definition)
			seen[id] = struct{}{}
		}
	}
	return definitions, nil
}

// Invalidate drops a definition from the cache, for use when the
// administration app reports an edit.
func (r *CachedFeeDefinitionRepository) Invalidate(ctx context.Context, id uuid.UUID) error {
	return r.cache.Delete(ctx, id)
}

// Ensure CachedFeeDefinitionRepository implements FeeDefinitionRepository
var _ fees.FeeDefinitionRepository = (*CachedFeeDefinitionRepository)(nil)
