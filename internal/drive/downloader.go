package drive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
)

// DownloadOptions controls how files are pulled from Google Drive.
// FolderPath is resolved from the Drive root when FolderID is empty.
type DownloadOptions struct {
	FolderID    string
	FolderPath  string
	DownloadDir string
}

// Downloader pulls run input files from a Drive folder.
type Downloader struct {
	source FileSource
}

func NewDownloader(source FileSource) *Downloader {
	return &Downloader{source: source}
}

// DownloadFolder downloads every CSV and XLSX file in the folder into DownloadDir
// and returns the local paths in listing order.
func (d *Downloader) DownloadFolder(ctx context.Context, opts DownloadOptions) ([]string, error) {
	if opts.DownloadDir == "" {
		return nil, fmt.Errorf("download dir is required")
	}
	if err := os.MkdirAll(opts.DownloadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	folderID := opts.FolderID
	if folderID == "" && opts.FolderPath != "" {
		id, err := d.source.FindFolderByPath(ctx, opts.FolderPath)
		if err != nil {
			return nil, fmt.Errorf("resolve drive folder %q: %w", opts.FolderPath, err)
		}
		log.Debug().Str("path", opts.FolderPath).Str("folder_id", id).Msg("resolved drive folder")
		folderID = id
	}

	files, err := d.source.ListFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}

	var localPaths []string
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ext := strings.ToLower(filepath.Ext(f.Name))
		if ext != ".csv" && ext != ".xlsx" {
			continue
		}

		localPath := filepath.Join(opts.DownloadDir, filepath.Base(f.Name))
		if err := d.download(ctx, f, localPath); err != nil {
			return nil, err
		}
		log.Debug().Str("file", f.Name).Str("path", localPath).Msg("downloaded drive file")
		localPaths = append(localPaths, localPath)
	}

	return localPaths, nil
}

func (d *Downloader) download(ctx context.Context, f *File, localPath string) error {
	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", localPath, err)
	}

	if err := d.source.DownloadFile(ctx, f.ID, out); err != nil {
		out.Close()
		os.Remove(localPath)
		return fmt.Errorf("failed to download %s: %w", f.Name, err)
	}
	return out.Close()
}

// RunInputs are the two files one engine run needs.
type RunInputs struct {
	Inventory string
	Distance  string
}

// SelectRunInputs picks the inventory and distance files by name. When several
// match, the lexically last one wins so dated exports pick the newest.
func SelectRunInputs(paths []string) (RunInputs, error) {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	var in RunInputs
	for _, p := range sorted {
		name := strings.ToLower(filepath.Base(p))
		switch {
		case strings.Contains(name, "distance"):
			in.Distance = p
		case strings.Contains(name, "inventory"):
			in.Inventory = p
		}
	}

	var missing []string
	if in.Inventory == "" {
		missing = append(missing, "inventory")
	}
	if in.Distance == "" {
		missing = append(missing, "distance")
	}
	if len(missing) > 0 {
		return RunInputs{}, fmt.Errorf("drive folder has no %s file: %w", strings.Join(missing, " or "), domain.ErrNotFound)
	}
	return in, nil
}
