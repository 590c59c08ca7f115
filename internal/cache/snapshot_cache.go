package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/smartstockx/backend-go/internal/config"
	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
)

const (
	snapshotKeyPrefix = "smartstockx:snapshot"
	scanBatchSize     = 100
)

// SnapshotKey identifies one computed portfolio snapshot.
type SnapshotKey struct {
	RunID     string
	TopN      int
	Ranking   string
	ZeroStock string
}

type SnapshotCache interface {
	Get(ctx context.Context, key SnapshotKey) (*domain.PortfolioSnapshot, bool, error)
	Set(ctx context.Context, key SnapshotKey, snapshot *domain.PortfolioSnapshot) error
	InvalidateAll(ctx context.Context) error
}

type redisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSnapshotCache struct{}

func NewSnapshotCache(cfg config.CacheConfig) (SnapshotCache, error) {
	if !cfg.Enabled {
		return &noopSnapshotCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSnapshotCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopSnapshotCache() SnapshotCache {
	return &noopSnapshotCache{}
}

func (c *redisSnapshotCache) Get(ctx context.Context, key SnapshotKey) (*domain.PortfolioSnapshot, bool, error) {
	payload, err := c.client.Get(ctx, buildSnapshotKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var snapshot domain.PortfolioSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, false, fmt.Errorf("decode snapshot cache: %w", err)
	}

	return &snapshot, true, nil
}

func (c *redisSnapshotCache) Set(ctx context.Context, key SnapshotKey, snapshot *domain.PortfolioSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot cache: %w", err)
	}

	if err := c.client.Set(ctx, buildSnapshotKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSnapshotCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, snapshotKeyPrefix, scanBatchSize)
}

func (n *noopSnapshotCache) Get(ctx context.Context, key SnapshotKey) (*domain.PortfolioSnapshot, bool, error) {
	return nil, false, nil
}

func (n *noopSnapshotCache) Set(ctx context.Context, key SnapshotKey, snapshot *domain.PortfolioSnapshot) error {
	return nil
}

func (n *noopSnapshotCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// buildSnapshotKey keeps the run id readable and hashes the option set.
func buildSnapshotKey(key SnapshotKey) string {
	run := strings.TrimSpace(key.RunID)
	if run == "" {
		run = "none"
	}
	return fmt.Sprintf("%s:%s:%s", snapshotKeyPrefix, run, optionsHash(key))
}

func optionsHash(key SnapshotKey) string {
	parts := []string{}
	if key.TopN > 0 {
		parts = append(parts, fmt.Sprintf("top_n=%d", key.TopN))
	}
	if key.Ranking != "" {
		parts = append(parts, "ranking="+strings.ToLower(strings.TrimSpace(key.Ranking)))
	}
	if key.ZeroStock != "" {
		parts = append(parts, "zero_stock="+strings.ToLower(strings.TrimSpace(key.ZeroStock)))
	}

	if len(parts) == 0 {
		return "default"
	}

	sort.Strings(parts)
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
