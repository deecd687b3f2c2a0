package config

import (
	"context"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/panakour/shopdal/pkg/shopdal"
	"github.com/panakour/shopdal/pkg/shopdal/repo/memory"
	repopg "github.com/panakour/shopdal/pkg/shopdal/repo/postgres"
	fsstore "github.com/panakour/shopdal/pkg/shopdal/storage/fs"
	memorystore "github.com/panakour/shopdal/pkg/shopdal/storage/memory"
	s3store "github.com/panakour/shopdal/pkg/shopdal/storage/s3"
)

// Config holds the environment-driven configuration for assembling the
// toolkit.
type Config struct {
	// DatabaseURL selects the repository: empty means in-memory, a
	// postgres:// URL selects the pgx-backed repository.
	DatabaseURL string `env:"DATABASE_URL" env-default:""`

	// StorageBackend selects the file store: memory, fs or s3.
	StorageBackend string `env:"STORAGE_BACKEND" env-default:"memory"`
	StorageDir     string `env:"STORAGE_DIR" env-default:""`

	S3Region          string `env:"S3_REGION" env-default:""`
	S3Bucket          string `env:"S3_BUCKET" env-default:""`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID" env-default:""`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY" env-default:""`
	S3Endpoint        string `env:"S3_ENDPOINT" env-default:""`
	S3UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`
	S3CreateBucket    bool   `env:"S3_CREATE_BUCKET" env-default:"false"`

	// MediaFolder names the folder ingested media is filed under; empty
	// uses the store's default folder.
	MediaFolder string `env:"MEDIA_FOLDER" env-default:""`
	// MaxImagesPerCall caps how many sources one AssignMedia call accepts.
	MaxImagesPerCall int `env:"MAX_IMAGES_PER_CALL" env-default:"4"`
	// FetchTimeout bounds a single remote image download.
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" env-default:"20s"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case "memory":
	case "fs":
		if c.StorageDir == "" {
			return fmt.Errorf("STORAGE_DIR is required for the fs storage backend")
		}
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 storage backend")
		}
	default:
		return fmt.Errorf("storage backend must be 'memory', 'fs' or 's3', got %q", c.StorageBackend)
	}

	if c.MaxImagesPerCall <= 0 {
		return fmt.Errorf("MAX_IMAGES_PER_CALL must be positive, got %d", c.MaxImagesPerCall)
	}
	return nil
}

// Toolkit bundles the assembled accessor and media service.
type Toolkit struct {
	Dal   *shopdal.Dal
	Media *shopdal.MediaService

	pool *pgxpool.Pool
}

// Close releases resources held by the toolkit (the database pool, when
// one was opened).
func (t *Toolkit) Close() {
	if t.pool != nil {
		t.pool.Close()
	}
}

// BuildToolkit assembles the repository, file store, media service and
// accessor described by the configuration.
func (c *Config) BuildToolkit(ctx context.Context) (*Toolkit, error) {
	toolkit := &Toolkit{}

	var repo shopdal.Repository
	if c.DatabaseURL == "" {
		repo = memory.New()
	} else {
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		toolkit.pool = pool
		repo = repopg.NewWithPool(pool)
	}

	files, err := c.buildFileStore(ctx)
	if err != nil {
		toolkit.Close()
		return nil, err
	}

	media, err := shopdal.NewMediaService(repo,
		shopdal.WithFileStore(files),
		shopdal.WithFetcher(shopdal.NewHTTPFetcher(shopdal.WithTimeout(c.FetchTimeout))),
		shopdal.WithMediaFolder(c.MediaFolder),
		shopdal.WithMaxImages(c.MaxImagesPerCall),
	)
	if err != nil {
		toolkit.Close()
		return nil, fmt.Errorf("build media service: %w", err)
	}

	dal, err := shopdal.New(
		shopdal.WithRepository(repo),
		shopdal.WithMediaService(media),
	)
	if err != nil {
		toolkit.Close()
		return nil, fmt.Errorf("build accessor: %w", err)
	}

	toolkit.Dal = dal
	toolkit.Media = media
	return toolkit, nil
}

func (c *Config) buildFileStore(ctx context.Context) (shopdal.FileStore, error) {
	switch c.StorageBackend {
	case "fs":
		return fsstore.New(fsstore.Config{BaseDir: c.StorageDir})
	case "s3":
		return s3store.New(ctx, s3store.Config{
			Region:                 c.S3Region,
			Bucket:                 c.S3Bucket,
			AccessKeyID:            c.S3AccessKeyID,
			SecretAccessKey:        c.S3SecretAccessKey,
			Endpoint:               c.S3Endpoint,
			UsePathStyle:           c.S3UsePathStyle,
			CreateBucketIfNotExist: c.S3CreateBucket,
		})
	default:
		return memorystore.New(), nil
	}
}
