package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/andresuchdata/smartstockx/backend-go/internal/cache"
	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
	"github.com/andresuchdata/smartstockx/backend-go/internal/storage"
)

type fakeRepo struct {
	mu        sync.Mutex
	run       *domain.Run
	inventory []domain.InventoryRecord
	transfers []domain.TransferSuggestion
	listErr   error
	replaced  int
	lastQuery domain.InventoryFilter
}

func (r *fakeRepo) ListInventory(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryRecord, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuery = filter
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	return r.inventory, len(r.inventory), nil
}

func (r *fakeRepo) ListTransfers(ctx context.Context) ([]domain.TransferSuggestion, error) {
	return r.transfers, nil
}

func (r *fakeRepo) ReplaceRun(ctx context.Context, run domain.Run, inventory []domain.InventoryRecord, transfers []domain.TransferSuggestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.run = &run
	r.inventory = inventory
	r.transfers = transfers
	r.replaced++
	return nil
}

func (r *fakeRepo) LatestRun(ctx context.Context) (*domain.Run, error) {
	if r.run == nil {
		return nil, domain.ErrNotFound
	}
	return r.run, nil
}

type fakeCache struct {
	entries     map[cache.SnapshotKey]*domain.PortfolioSnapshot
	sets        int
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[cache.SnapshotKey]*domain.PortfolioSnapshot{}}
}

func (c *fakeCache) Get(ctx context.Context, key cache.SnapshotKey) (*domain.PortfolioSnapshot, bool, error) {
	s, ok := c.entries[key]
	return s, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, key cache.SnapshotKey, snapshot *domain.PortfolioSnapshot) error {
	c.sets++
	c.entries[key] = snapshot
	return nil
}

func (c *fakeCache) InvalidateAll(ctx context.Context) error {
	c.invalidated++
	c.entries = map[cache.SnapshotKey]*domain.PortfolioSnapshot{}
	return nil
}

type fakeStorage struct {
	uploaded []string
	objects  map[string][]byte
}

func (s *fakeStorage) UploadObject(ctx context.Context, key string, data []byte) error {
	s.uploaded = append(s.uploaded, key)
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[key] = data
	return nil
}

func (s *fakeStorage) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	for key, data := range s.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, storage.ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	return out, nil
}

func (s *fakeStorage) DownloadObject(ctx context.Context, key, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(destPath, s.objects[key], 0o644)
}
