package shopdal

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrNotFound indicates a lookup by natural key matched no record.
	// Repository implementations return it; the Dal layer converts it into
	// a nil result.
	ErrNotFound = errors.New("record not found")

	// ErrRepositoryRequired indicates a service was constructed without a
	// repository.
	ErrRepositoryRequired = errors.New("repository is required")
)

// UploadError indicates a remote fetch could not produce image bytes
// (network error, non-success status, empty body).
type UploadError struct {
	URL string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload media from URL %q: %v", e.URL, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Base64DecodeError indicates inline image data failed strict base64
// decoding or decoded to empty content.
type Base64DecodeError struct {
	Err error
}

func (e *Base64DecodeError) Error() string {
	return fmt.Sprintf("failed to decode base64 image: %v", e.Err)
}

func (e *Base64DecodeError) Unwrap() error {
	return e.Err
}

// ContentSaveError indicates media content could not be persisted: temp
// file creation/write failed, the MIME type is unsupported, or the file
// store rejected the write.
type ContentSaveError struct {
	Err error
}

func (e *ContentSaveError) Error() string {
	return fmt.Sprintf("failed to save media content: %v", e.Err)
}

func (e *ContentSaveError) Unwrap() error {
	return e.Err
}
