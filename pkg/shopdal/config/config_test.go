package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.Empty(t, cfg.MediaFolder)
	assert.Equal(t, 4, cfg.MaxImagesPerCall)
	assert.Equal(t, 20*time.Second, cfg.FetchTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "fs")
	t.Setenv("STORAGE_DIR", t.TempDir())
	t.Setenv("MEDIA_FOLDER", "product_media")
	t.Setenv("MAX_IMAGES_PER_CALL", "2")
	t.Setenv("FETCH_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fs", cfg.StorageBackend)
	assert.Equal(t, "product_media", cfg.MediaFolder)
	assert.Equal(t, 2, cfg.MaxImagesPerCall)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "memory backend",
			cfg:  Config{StorageBackend: "memory", MaxImagesPerCall: 4},
		},
		{
			name: "fs backend with dir",
			cfg:  Config{StorageBackend: "fs", StorageDir: "/tmp/media", MaxImagesPerCall: 4},
		},
		{
			name:    "fs backend without dir",
			cfg:     Config{StorageBackend: "fs", MaxImagesPerCall: 4},
			wantErr: "STORAGE_DIR",
		},
		{
			name:    "s3 backend without bucket",
			cfg:     Config{StorageBackend: "s3", MaxImagesPerCall: 4},
			wantErr: "S3_BUCKET",
		},
		{
			name:    "unknown backend",
			cfg:     Config{StorageBackend: "ftp", MaxImagesPerCall: 4},
			wantErr: "storage backend",
		},
		{
			name:    "non-positive image cap",
			cfg:     Config{StorageBackend: "memory", MaxImagesPerCall: 0},
			wantErr: "MAX_IMAGES_PER_CALL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuildToolkitMemory(t *testing.T) {
	cfg := Config{StorageBackend: "memory", MaxImagesPerCall: 4, FetchTimeout: 5 * time.Second}

	toolkit, err := cfg.BuildToolkit(context.Background())
	require.NoError(t, err)
	defer toolkit.Close()

	assert.NotNil(t, toolkit.Dal)
	assert.NotNil(t, toolkit.Media)
}

func TestBuildToolkitFS(t *testing.T) {
	cfg := Config{
		StorageBackend:   "fs",
		StorageDir:       t.TempDir(),
		MediaFolder:      "product_media",
		MaxImagesPerCall: 4,
		FetchTimeout:     5 * time.Second,
	}

	toolkit, err := cfg.BuildToolkit(context.Background())
	require.NoError(t, err)
	defer toolkit.Close()

	assert.NotNil(t, toolkit.Dal)
}
