package shopdal_test

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panakour/shopdal/pkg/shopdal"
	memoryrepo "github.com/panakour/shopdal/pkg/shopdal/repo/memory"
	memorystore "github.com/panakour/shopdal/pkg/shopdal/storage/memory"
)

// Minimal valid file headers per format, enough for MIME sniffing.
var (
	pngBytes = []byte{
		0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
		0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
		0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
		0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
		0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
	}
	jpegBytes = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 0x4a, 0x46, 0x49, 0x46, 0x00, 0x01}
	gifBytes  = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00\x3b")
	webpBytes = append([]byte("RIFF\x24\x00\x00\x00WEBP"), []byte("VP8 ")...)
	bmpBytes  = []byte{0x42, 0x4d, 0x1e, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	pdfBytes  = []byte("%PDF-1.4\n%%EOF\n")
	rawBytes  = []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}
)

func dataURI(mime string, content []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(content)
}

// stubFetcher serves canned responses keyed by URL; unknown URLs fail like
// an unreachable host.
type stubFetcher struct {
	responses map[string][]byte
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, ok := f.responses[url]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return body, nil
}

type mediaFixture struct {
	repo  shopdal.Repository
	store *memorystore.Store
	media *shopdal.MediaService
}

func setupMediaService(t *testing.T, options ...shopdal.MediaOption) *mediaFixture {
	t.Helper()

	repo := memoryrepo.New()
	store := memorystore.New()

	options = append([]shopdal.MediaOption{
		shopdal.WithFileStore(store),
		shopdal.WithFetcher(&stubFetcher{responses: map[string][]byte{}}),
	}, options...)

	media, err := shopdal.NewMediaService(repo, options...)
	require.NoError(t, err)

	return &mediaFixture{repo: repo, store: store, media: media}
}

func TestNewMediaService(t *testing.T) {
	repo := memoryrepo.New()

	t.Run("requires repository", func(t *testing.T) {
		_, err := shopdal.NewMediaService(nil, shopdal.WithFileStore(memorystore.New()))
		assert.Error(t, err)
	})

	t.Run("requires file store", func(t *testing.T) {
		_, err := shopdal.NewMediaService(repo)
		assert.Error(t, err)
	})

	t.Run("with file store succeeds", func(t *testing.T) {
		media, err := shopdal.NewMediaService(repo, shopdal.WithFileStore(memorystore.New()))
		assert.NoError(t, err)
		assert.NotNil(t, media)
	})
}

func TestAssignMediaFromBase64(t *testing.T) {
	f := setupMediaService(t)
	ctx := context.Background()

	refs, err := f.media.AssignMedia(ctx, []string{dataURI("image/png", pngBytes)})
	require.NoError(t, err)
	require.Len(t, refs, 1)

	media, err := f.repo.GetMedia(ctx, refs[0].MediaID)
	require.NoError(t, err)
	assert.Equal(t, "image/png", media.MimeType)
	assert.Equal(t, "png", media.FileExtension)
	assert.Empty(t, media.MediaFolderID)

	stored, ok := f.store.Bytes(refs[0].MediaID)
	require.True(t, ok)
	assert.Equal(t, pngBytes, stored)
}

func TestAssignMediaFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/logo.gif":
			w.Write(gifBytes)
		case "/empty":
			// 200 with no body
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	repo := memoryrepo.New()
	store := memorystore.New()
	media, err := shopdal.NewMediaService(repo,
		shopdal.WithFileStore(store),
		shopdal.WithFetcher(shopdal.NewHTTPFetcher()),
	)
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("downloads and registers", func(t *testing.T) {
		refs, err := media.AssignMedia(ctx, []string{server.URL + "/logo.gif"})
		require.NoError(t, err)
		require.Len(t, refs, 1)

		record, err := repo.GetMedia(ctx, refs[0].MediaID)
		require.NoError(t, err)
		assert.Equal(t, "image/gif", record.MimeType)
		assert.Equal(t, "gif", record.FileExtension)
	})

	t.Run("non-success status fails with upload error", func(t *testing.T) {
		url := server.URL + "/missing.png"
		_, err := media.AssignMedia(ctx, []string{url})

		var uploadErr *shopdal.UploadError
		require.ErrorAs(t, err, &uploadErr)
		assert.Equal(t, url, uploadErr.URL)
		assert.Contains(t, err.Error(), url)
	})

	t.Run("empty body fails with upload error", func(t *testing.T) {
		_, err := media.AssignMedia(ctx, []string{server.URL + "/empty"})

		var uploadErr *shopdal.UploadError
		require.ErrorAs(t, err, &uploadErr)
	})
}

func TestAssignMediaUnreachableURL(t *testing.T) {
	f := setupMediaService(t)

	url := "https://invalid-host-that-does-not-exist.example/image.jpg"
	_, err := f.media.AssignMedia(context.Background(), []string{url})

	var uploadErr *shopdal.UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, url, uploadErr.URL)
	assert.Contains(t, err.Error(), url)
}

func TestAssignMediaExtensionMapping(t *testing.T) {
	tests := []struct {
		mimeType  string
		extension string
		content   []byte
	}{
		{"image/png", "png", pngBytes},
		{"image/jpeg", "jpg", jpegBytes},
		{"image/gif", "gif", gifBytes},
		{"image/webp", "webp", webpBytes},
		{"image/bmp", "bmp", bmpBytes},
		{"application/pdf", "pdf", pdfBytes},
		{"text/plain", "txt", []byte("plain text file contents")},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			f := setupMediaService(t)
			ctx := context.Background()

			refs, err := f.media.AssignMedia(ctx, []string{dataURI(tt.mimeType, tt.content)})
			require.NoError(t, err)
			require.Len(t, refs, 1)

			media, err := f.repo.GetMedia(ctx, refs[0].MediaID)
			require.NoError(t, err)
			assert.Equal(t, tt.mimeType, media.MimeType)
			assert.Equal(t, tt.extension, media.FileExtension)
		})
	}
}

func TestAssignMediaUnsupportedMimeType(t *testing.T) {
	f := setupMediaService(t)

	_, err := f.media.AssignMedia(context.Background(), []string{dataURI("application/octet-stream", rawBytes)})

	var saveErr *shopdal.ContentSaveError
	require.ErrorAs(t, err, &saveErr)
	assert.Contains(t, err.Error(), "unsupported file type: application/octet-stream")
}

func TestAssignMediaInvalidBase64(t *testing.T) {
	f := setupMediaService(t)

	_, err := f.media.AssignMedia(context.Background(), []string{"data:image/png;base64,invalid_base64"})

	var decodeErr *shopdal.Base64DecodeError
	require.ErrorAs(t, err, &decodeErr)
	// Nothing may be persisted on failure.
	assert.Zero(t, f.store.Len())
}

func TestAssignMediaRespectsLimit(t *testing.T) {
	f := setupMediaService(t)
	ctx := context.Background()

	sources := []string{
		dataURI("image/png", pngBytes),
		dataURI("image/gif", gifBytes),
		dataURI("image/jpeg", jpegBytes),
		dataURI("application/pdf", pdfBytes),
		dataURI("image/bmp", bmpBytes), // dropped: over the cap
	}

	refs, err := f.media.AssignMedia(ctx, sources)
	require.NoError(t, err)
	require.Len(t, refs, shopdal.DefaultMaxImages)

	// Order of the surviving inputs is preserved.
	wantExtensions := []string{"png", "gif", "jpg", "pdf"}
	for i, ref := range refs {
		media, err := f.repo.GetMedia(ctx, ref.MediaID)
		require.NoError(t, err)
		assert.Equal(t, wantExtensions[i], media.FileExtension)
	}
	assert.Equal(t, shopdal.DefaultMaxImages, f.store.Len())
}

func TestAssignMediaCustomLimit(t *testing.T) {
	f := setupMediaService(t, shopdal.WithMaxImages(2))

	refs, err := f.media.AssignMedia(context.Background(), []string{
		dataURI("image/png", pngBytes),
		dataURI("image/gif", gifBytes),
		dataURI("image/jpeg", jpegBytes),
	})
	require.NoError(t, err)
	assert.Len(t, refs, 2)
}

func TestAssignMediaEmptyInput(t *testing.T) {
	f := setupMediaService(t)

	refs, err := f.media.AssignMedia(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, refs)
	assert.Zero(t, f.store.Len())
}

func TestAssignMediaBatchAbortsOnFailure(t *testing.T) {
	f := setupMediaService(t)

	refs, err := f.media.AssignMedia(context.Background(), []string{
		dataURI("image/png", pngBytes),
		"https://unreachable.example/second.png",
	})
	require.Error(t, err)
	assert.Nil(t, refs)
}

func TestAssignMediaWithFolder(t *testing.T) {
	f := setupMediaService(t, shopdal.WithMediaFolder("test_folder"))
	ctx := context.Background()

	first, err := f.media.AssignMedia(ctx, []string{dataURI("image/png", pngBytes)})
	require.NoError(t, err)
	require.Len(t, first, 1)

	folder, err := f.repo.GetMediaFolderByName(ctx, "test_folder")
	require.NoError(t, err)
	assert.True(t, folder.Configuration.CreateThumbnails)
	assert.Equal(t, 80, folder.Configuration.ThumbnailQuality)
	assert.False(t, folder.Configuration.Private)
	require.Len(t, folder.Configuration.ThumbnailSizes, 1)

	size, err := f.repo.GetThumbnailSizeByDimensions(ctx, 500, 500)
	require.NoError(t, err)
	assert.Equal(t, size.ID, folder.Configuration.ThumbnailSizes[0].ID)

	// A second ingestion reuses the folder instead of duplicating it.
	second, err := f.media.AssignMedia(ctx, []string{dataURI("image/gif", gifBytes)})
	require.NoError(t, err)
	require.Len(t, second, 1)

	firstMedia, err := f.repo.GetMedia(ctx, first[0].MediaID)
	require.NoError(t, err)
	secondMedia, err := f.repo.GetMedia(ctx, second[0].MediaID)
	require.NoError(t, err)
	assert.Equal(t, folder.ID, firstMedia.MediaFolderID)
	assert.Equal(t, folder.ID, secondMedia.MediaFolderID)
}

func TestAssignMediaBareBase64(t *testing.T) {
	f := setupMediaService(t)
	ctx := context.Background()

	// No data-URI prefix: classified as base64 because it strict-decodes.
	refs, err := f.media.AssignMedia(ctx, []string{base64.StdEncoding.EncodeToString(pngBytes)})
	require.NoError(t, err)
	require.Len(t, refs, 1)

	media, err := f.repo.GetMedia(ctx, refs[0].MediaID)
	require.NoError(t, err)
	assert.Equal(t, "png", media.FileExtension)
}

func TestUploadErrorWrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := &shopdal.UploadError{URL: "https://example.com/a.png", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t,
		fmt.Sprintf("failed to upload media from URL %q: %v", "https://example.com/a.png", cause),
		err.Error())
}
