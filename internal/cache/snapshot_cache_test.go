package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/smartstockx/backend-go/internal/config"
	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
)

func TestBuildSnapshotKey(t *testing.T) {
	base := SnapshotKey{RunID: "20250101_000000", TopN: 10, Ranking: "input_order", ZeroStock: "zero"}

	key := buildSnapshotKey(base)
	assert.True(t, strings.HasPrefix(key, snapshotKeyPrefix+":20250101_000000:"))
	assert.Equal(t, key, buildSnapshotKey(SnapshotKey{RunID: " 20250101_000000 ", TopN: 10, Ranking: "INPUT_ORDER", ZeroStock: "zero"}))

	other := base
	other.Ranking = "by_demand"
	assert.NotEqual(t, key, buildSnapshotKey(other))

	assert.Equal(t, snapshotKeyPrefix+":none:default", buildSnapshotKey(SnapshotKey{}))
}

func TestBuildRedisOptions(t *testing.T) {
	opts, err := buildRedisOptions(config.CacheConfig{RedisHost: "cache", RedisPort: "6380", RedisDB: 2})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	opts, err = buildRedisOptions(config.CacheConfig{RedisURL: "redis://:secret@redis:6379/1"})
	require.NoError(t, err)
	assert.Equal(t, "redis:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 1, opts.DB)

	_, err = buildRedisOptions(config.CacheConfig{RedisURL: "://bad"})
	assert.Error(t, err)
}

func TestDisabledCacheIsNoop(t *testing.T) {
	c, err := NewSnapshotCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, SnapshotKey{RunID: "r"}, &domain.PortfolioSnapshot{RunID: "r"}))
	got, ok, err := c.Get(ctx, SnapshotKey{RunID: "r"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.NoError(t, c.InvalidateAll(ctx))
}
