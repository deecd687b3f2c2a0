package shopdal

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxImages caps how many sources a single AssignMedia call
// processes; extra entries are silently dropped.
const DefaultMaxImages = 4

// fallbackMimeType is used when sniffing yields nothing usable.
const fallbackMimeType = "image/jpeg"

// defaultThumbnailSizes is the fixed thumbnail configuration applied to
// folders created by this package.
var defaultThumbnailSizes = []MediaThumbnailSize{
	{Width: 500, Height: 500},
}

const defaultThumbnailQuality = 80

// dataURIPrefix matches an inline data-URI prefix such as
// "data:image/png;base64,". Its presence forces the base64 path so a
// malformed payload surfaces as a decode error rather than a bogus URL
// fetch.
var dataURIPrefix = regexp.MustCompile(`^data:[\w.+-]+/[\w.+-]+;base64,`)

// sourceKind is the result of classifying an image source string.
type sourceKind int

const (
	sourceURL sourceKind = iota
	sourceBase64
)

// classifySource decides whether a source string carries inline base64
// image data or a remote URL. A data-URI prefix always means base64; a
// bare string counts as base64 only when it strict-decodes to non-empty
// bytes.
func classifySource(source string) sourceKind {
	if dataURIPrefix.MatchString(source) {
		return sourceBase64
	}
	trimmed := strings.TrimSpace(source)
	decoded, err := base64.StdEncoding.Strict().DecodeString(trimmed)
	if err != nil || len(decoded) == 0 {
		return sourceURL
	}
	return sourceBase64
}

// MediaService ingests image sources (HTTP URLs or base64 data) and
// registers them as media assets. A single instance holds only fixed
// configuration; calls are sequential with no shared mutable state.
type MediaService struct {
	repository Repository
	files      FileStore
	fetcher    Fetcher
	folderName string
	maxImages  int
}

// MediaOption represents a functional option for configuring the media
// service.
type MediaOption func(*MediaService)

// WithFileStore sets the media storage subsystem.
func WithFileStore(files FileStore) MediaOption {
	return func(s *MediaService) {
		s.files = files
	}
}

// WithFetcher sets the HTTP fetcher used for URL sources.
func WithFetcher(fetcher Fetcher) MediaOption {
	return func(s *MediaService) {
		s.fetcher = fetcher
	}
}

// WithMediaFolder names the folder ingested media is filed under. The
// folder is created lazily on first use with a fixed thumbnail
// configuration. Empty means the store's default folder.
func WithMediaFolder(name string) MediaOption {
	return func(s *MediaService) {
		s.folderName = name
	}
}

// WithMaxImages overrides the per-call source cap.
func WithMaxImages(n int) MediaOption {
	return func(s *MediaService) {
		if n > 0 {
			s.maxImages = n
		}
	}
}

// NewMediaService creates a media service backed by the given repository.
// A file store is required; the fetcher defaults to NewHTTPFetcher().
func NewMediaService(repo Repository, options ...MediaOption) (*MediaService, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}

	s := &MediaService{
		repository: repo,
		maxImages:  DefaultMaxImages,
	}

	for _, option := range options {
		option(s)
	}

	if s.files == nil {
		return nil, errors.New("file store is required")
	}
	if s.fetcher == nil {
		s.fetcher = NewHTTPFetcher()
	}

	return s, nil
}

// AssignMedia ingests the given sources in order, truncated to the
// configured cap, and returns one media reference per ingested source.
// The first failure aborts the batch and discards references already
// collected in this call. An empty input returns an empty result and
// performs no I/O.
func (s *MediaService) AssignMedia(ctx context.Context, sources []string) ([]MediaRef, error) {
	if len(sources) == 0 {
		return []MediaRef{}, nil
	}
	if len(sources) > s.maxImages {
		sources = sources[:s.maxImages]
	}

	refs := make([]MediaRef, 0, len(sources))
	for _, source := range sources {
		var (
			mediaID string
			err     error
		)
		switch classifySource(source) {
		case sourceBase64:
			mediaID, err = s.saveBase64ToMedia(ctx, source)
		default:
			mediaID, err = s.saveURLToMedia(ctx, source)
		}
		if err != nil {
			return nil, err
		}
		refs = append(refs, MediaRef{MediaID: mediaID})
	}

	return refs, nil
}

func (s *MediaService) saveURLToMedia(ctx context.Context, url string) (string, error) {
	content, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", &UploadError{URL: url, Err: err}
	}
	if len(content) == 0 {
		return "", &UploadError{URL: url, Err: errors.New("empty response body")}
	}

	return s.saveContentToMedia(ctx, content)
}

func (s *MediaService) saveBase64ToMedia(ctx context.Context, source string) (string, error) {
	payload := strings.TrimSpace(dataURIPrefix.ReplaceAllString(source, ""))

	content, err := base64.StdEncoding.Strict().DecodeString(payload)
	if err != nil {
		return "", &Base64DecodeError{Err: err}
	}
	if len(content) == 0 {
		return "", &Base64DecodeError{Err: errors.New("empty content after decode")}
	}

	return s.saveContentToMedia(ctx, content)
}

// saveContentToMedia persists raw bytes as a media asset: temp file, MIME
// sniff, extension mapping, media record insert, file-store handoff. The
// temp file is removed on every exit path.
func (s *MediaService) saveContentToMedia(ctx context.Context, content []byte) (string, error) {
	tempFile, err := os.CreateTemp("", "shopdal_media_*")
	if err != nil {
		return "", &ContentSaveError{Err: fmt.Errorf("cannot create temp file: %w", err)}
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(content); err != nil {
		tempFile.Close()
		return "", &ContentSaveError{Err: fmt.Errorf("cannot write temp file: %w", err)}
	}
	if err := tempFile.Close(); err != nil {
		return "", &ContentSaveError{Err: fmt.Errorf("cannot close temp file: %w", err)}
	}

	mimeType := sniffMimeType(content)
	extension, err := extensionForMimeType(mimeType)
	if err != nil {
		return "", err
	}

	name := NewID()
	mediaID := NewID()

	media := &Media{
		ID:            mediaID,
		Name:          name,
		FileExtension: extension,
		MimeType:      mimeType,
		CreatedAt:     time.Now().UTC(),
	}

	if s.folderName != "" {
		folderID, err := s.mediaFolderID(ctx)
		if err != nil {
			return "", &ContentSaveError{Err: err}
		}
		media.MediaFolderID = folderID
	}

	if err := s.repository.CreateMedia(ctx, media); err != nil {
		return "", &ContentSaveError{Err: err}
	}

	err = s.files.SaveMediaFile(ctx, SaveMediaFileRequest{
		Path:          tempFile.Name(),
		FileName:      name + "." + extension,
		MimeType:      mimeType,
		MediaFolderID: media.MediaFolderID,
		MediaID:       mediaID,
	})
	if err != nil {
		return "", &ContentSaveError{Err: err}
	}

	return mediaID, nil
}

// sniffMimeType detects the MIME type of raw content, stripping any
// parameters (e.g. "; charset=utf-8"). Empty detection falls back to
// image/jpeg.
func sniffMimeType(content []byte) string {
	detected := mimetype.Detect(content).String()
	if i := strings.IndexByte(detected, ';'); i >= 0 {
		detected = detected[:i]
	}
	detected = strings.TrimSpace(detected)
	if detected == "" {
		return fallbackMimeType
	}
	return detected
}

// mediaFolderID resolves the configured folder by name, creating it on
// first use. The created folder's configuration (thumbnail sizes, quality,
// privacy) is fixed and never updated afterwards. The lookup-then-create
// is not atomic; concurrent first uses can duplicate the folder.
func (s *MediaService) mediaFolderID(ctx context.Context) (string, error) {
	folder, err := s.repository.GetMediaFolderByName(ctx, s.folderName)
	if err == nil {
		return folder.ID, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	sizes, err := s.thumbnailSizeRefs(ctx)
	if err != nil {
		return "", err
	}

	folder = &MediaFolder{
		ID:   NewID(),
		Name: s.folderName,
		Configuration: MediaFolderConfiguration{
			CreateThumbnails: true,
			ThumbnailQuality: defaultThumbnailQuality,
			ThumbnailSizes:   sizes,
			Private:          false,
		},
		UseParentConfiguration: false,
		Level:                  1,
		CreatedAt:              time.Now().UTC(),
	}
	if err := s.repository.CreateMediaFolder(ctx, folder); err != nil {
		return "", err
	}
	return folder.ID, nil
}

// thumbnailSizeRefs resolves the fixed thumbnail sizes against existing
// size records by (width, height), creating missing ones.
func (s *MediaService) thumbnailSizeRefs(ctx context.Context) ([]ThumbnailSizeRef, error) {
	refs := make([]ThumbnailSizeRef, 0, len(defaultThumbnailSizes))
	for _, size := range defaultThumbnailSizes {
		existing, err := s.repository.GetThumbnailSizeByDimensions(ctx, size.Width, size.Height)
		if err == nil {
			refs = append(refs, ThumbnailSizeRef{ID: existing.ID})
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}

		created := &MediaThumbnailSize{
			ID:     NewID(),
			Width:  size.Width,
			Height: size.Height,
		}
		if err := s.repository.CreateThumbnailSize(ctx, created); err != nil {
			return nil, err
		}
		refs = append(refs, ThumbnailSizeRef{ID: created.ID})
	}
	return refs, nil
}
