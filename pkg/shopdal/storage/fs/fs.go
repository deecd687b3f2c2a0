package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/panakour/shopdal/pkg/shopdal"
)

// Store is a filesystem implementation of the shopdal.FileStore interface.
// Files land under <baseDir>/<mediaID>/<fileName>.
type Store struct {
	baseDir string
}

// Config options for the filesystem store.
type Config struct {
	BaseDir string // Base directory for storing media files
}

// New creates a new filesystem file store, creating the base directory if
// it does not exist.
func New(config Config) (*Store, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Store{baseDir: config.BaseDir}, nil
}

// SaveMediaFile copies the bytes at req.Path into the store. The source
// file is left in place; the caller owns its cleanup.
func (s *Store) SaveMediaFile(ctx context.Context, req shopdal.SaveMediaFileRequest) error {
	src, err := os.Open(req.Path)
	if err != nil {
		return fmt.Errorf("failed to open media file: %w", err)
	}
	defer src.Close()

	dir := filepath.Join(s.baseDir, req.MediaID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create media directory: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, req.FileName))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Path returns where the bytes for a media id and file name live.
func (s *Store) Path(mediaID, fileName string) string {
	return filepath.Join(s.baseDir, mediaID, fileName)
}
