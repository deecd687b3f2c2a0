package memory

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/panakour/shopdal/pkg/shopdal"
)

// Store is an in-memory implementation of the shopdal.FileStore interface,
// intended for tests and examples.
type Store struct {
	mu    sync.RWMutex
	files map[string]storedFile
}

type storedFile struct {
	FileName      string
	MimeType      string
	MediaFolderID string
	Data          []byte
}

// New creates a new in-memory file store.
func New() *Store {
	return &Store{
		files: make(map[string]storedFile),
	}
}

// SaveMediaFile reads the bytes at req.Path and keeps them in memory keyed
// by media id.
func (s *Store) SaveMediaFile(ctx context.Context, req shopdal.SaveMediaFileRequest) error {
	data, err := os.ReadFile(req.Path)
	if err != nil {
		return fmt.Errorf("read media file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.files[req.MediaID] = storedFile{
		FileName:      req.FileName,
		MimeType:      req.MimeType,
		MediaFolderID: req.MediaFolderID,
		Data:          data,
	}
	return nil
}

// Bytes returns the stored bytes for a media id.
func (s *Store) Bytes(mediaID string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.files[mediaID]
	if !ok {
		return nil, false
	}
	data := make([]byte, len(f.Data))
	copy(data, f.Data)
	return data, true
}

// Len reports how many media files have been stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
