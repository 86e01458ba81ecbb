package cache

import (
	"go.uber.org/zap"

	"github.com/schoolerp/backend/internal/infrastructure/config"
)

// NewFeeDefinitionCache selects the cache backend from configuration:
// Redis when enabled, otherwise the in-memory implementation.
func NewFeeDefinitionCache(cfg *config.Config, logger *zap.Logger) (FeeDefinitionCache, error) {
	if cfg.Redis.Enabled {
		return NewRedisFeeDefinitionCache(cfg.Redis)
	}
	return NewInMemoryFeeDefinitionCache(logger), nil
}
