package cache

import (
	"context"
	"testing"
	"time"

	"github.com/schoolerp/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewFeeDefinitionCache_InMemoryWhenRedisDisabled(t *testing.T) {
	cfg := &config.Config{}

	c, err := NewFeeDefinitionCache(cfg, zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	inMemory, ok := c.(*InMemoryFeeDefinitionCache)
	require.True(t, ok)

	// The selected backend is usable as-is.
	definition := newTestDefinition("Tuition")
	require.NoError(t, inMemory.Set(context.Background(), definition, time.Minute))
	found, err := inMemory.Get(context.Background(), definition.ID)
	require.NoError(t, err)
	assert.Equal(t, definition.ID, found.ID)
}
