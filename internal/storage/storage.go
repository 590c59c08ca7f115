package storage

import (
	"context"
	"path"
	"path/filepath"
)

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the minimal S3-compatible operations used to archive run inputs.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	DownloadObject(ctx context.Context, key string, destPath string) error
	UploadObject(ctx context.Context, key string, data []byte) error
}

// RunKey places an input file under runs/<run_id>/.
func RunKey(runID, filename string) string {
	return path.Join("runs", runID, filepath.Base(filename))
}

// RunPrefix lists every archived input of one run.
func RunPrefix(runID string) string {
	return path.Join("runs", runID) + "/"
}

type noopStorage struct{}

// NewNoop returns storage that accepts uploads and holds nothing.
func NewNoop() ObjectStorage {
	return noopStorage{}
}

func (noopStorage) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	return nil, nil
}

func (noopStorage) DownloadObject(ctx context.Context, key, destPath string) error {
	return nil
}

func (noopStorage) UploadObject(ctx context.Context, key string, data []byte) error {
	return nil
}
