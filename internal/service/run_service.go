package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/smartstockx/backend-go/internal/cache"
	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
	"github.com/andresuchdata/smartstockx/backend-go/internal/engine"
	"github.com/andresuchdata/smartstockx/backend-go/internal/ingest"
	"github.com/andresuchdata/smartstockx/backend-go/internal/repository"
	"github.com/andresuchdata/smartstockx/backend-go/internal/storage"
)

// Archived inputs are stored under these names plus the original extension.
const (
	inventoryInput = "inventory"
	distanceInput  = "distance"
)

// InputFile is an uploaded or downloaded run input.
type InputFile struct {
	Name string
	Data []byte
}

type RunRequest struct {
	Source    string
	Inventory InputFile
	Distance  InputFile
}

type RunService struct {
	engine  *engine.Engine
	runs    repository.RunRepository
	storage storage.ObjectStorage
	cache   cache.SnapshotCache
	now     func() time.Time
}

func NewRunService(eng *engine.Engine, runs repository.RunRepository, store storage.ObjectStorage, cacheImpl cache.SnapshotCache) *RunService {
	if store == nil {
		store = storage.NewNoop()
	}
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSnapshotCache()
	}
	return &RunService{
		engine:  eng,
		runs:    runs,
		storage: store,
		cache:   cacheImpl,
		now:     time.Now,
	}
}

// Execute parses both files, scores them, archives the inputs and replaces the stored run.
func (s *RunService) Execute(ctx context.Context, req RunRequest) (*engine.RunResult, error) {
	rows, err := ingest.ParseInventory(bytes.NewReader(req.Inventory.Data), req.Inventory.Name)
	if err != nil {
		return nil, err
	}
	distances, err := ingest.ParseDistances(bytes.NewReader(req.Distance.Data), req.Distance.Name)
	if err != nil {
		return nil, err
	}

	evalDate := s.now()
	result, err := s.engine.Run(ctx, rows, distances, evalDate)
	if errors.Is(err, domain.ErrEmptyCollection) {
		return nil, fmt.Errorf("%s: no inventory rows: %w", req.Inventory.Name, domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("engine run: %w", err)
	}

	archived := map[string]InputFile{inventoryInput: req.Inventory, distanceInput: req.Distance}
	for _, role := range []string{inventoryInput, distanceInput} {
		f := archived[role]
		key := storage.RunKey(result.RunID, role+strings.ToLower(filepath.Ext(f.Name)))
		if err := s.storage.UploadObject(ctx, key, f.Data); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("run: archiving input failed")
		}
	}

	source := req.Source
	if source == "" {
		source = "upload"
	}
	run := domain.Run{
		ID:             result.RunID,
		Source:         source,
		InventoryCount: len(result.Inventory),
		TransferCount:  len(result.Transfers),
		CreatedAt:      evalDate,
	}
	if err := s.runs.ReplaceRun(ctx, run, result.Inventory, result.Transfers); err != nil {
		return nil, fmt.Errorf("store run %s: %w", result.RunID, err)
	}

	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("run: cache invalidation failed")
	}

	log.Info().
		Str("run_id", result.RunID).
		Str("source", source).
		Int("inventory", run.InventoryCount).
		Int("transfers", run.TransferCount).
		Msg("run stored")

	return result, nil
}

// Replay restores the archived inputs of runID into dir and runs them again
// as a new run.
func (s *RunService) Replay(ctx context.Context, runID, dir string) (*engine.RunResult, error) {
	objects, err := s.storage.ListObjects(ctx, storage.RunPrefix(runID))
	if err != nil {
		return nil, fmt.Errorf("list archived inputs of run %s: %w", runID, err)
	}

	paths := map[string]string{}
	for _, obj := range objects {
		name := path.Base(obj.Key)
		role := strings.TrimSuffix(name, path.Ext(name))
		if role != inventoryInput && role != distanceInput {
			continue
		}
		local := filepath.Join(dir, runID, name)
		if err := s.storage.DownloadObject(ctx, obj.Key, local); err != nil {
			return nil, fmt.Errorf("restore %s: %w", obj.Key, err)
		}
		paths[role] = local
	}
	if paths[inventoryInput] == "" || paths[distanceInput] == "" {
		return nil, fmt.Errorf("run %s has no archived inputs: %w", runID, domain.ErrNotFound)
	}

	log.Info().Str("run_id", runID).Str("dir", dir).Msg("replaying archived run")
	return s.ExecuteFiles(ctx, "replay", paths[inventoryInput], paths[distanceInput])
}

// ExecuteFiles runs the engine over files on local disk.
func (s *RunService) ExecuteFiles(ctx context.Context, source, inventoryPath, distancePath string) (*engine.RunResult, error) {
	inventory, err := readInput(inventoryPath)
	if err != nil {
		return nil, err
	}
	distance, err := readInput(distancePath)
	if err != nil {
		return nil, err
	}
	return s.Execute(ctx, RunRequest{Source: source, Inventory: inventory, Distance: distance})
}

func readInput(path string) (InputFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return InputFile{}, fmt.Errorf("read %s: %w", path, err)
	}
	return InputFile{Name: filepath.Base(path), Data: data}, nil
}
