package s3

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/panakour/shopdal/pkg/shopdal"
)

// Config options for the S3 file store.
type Config struct {
	Region          string // AWS region
	Bucket          string // S3 bucket name
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool   // Use path-style addressing (MinIO and friends)

	CreateBucketIfNotExist bool // Create bucket if it doesn't exist
}

// Store is an S3-compatible implementation of the shopdal.FileStore
// interface. Objects are keyed <mediaID>/<fileName>, optionally prefixed
// by the media folder id.
type Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
}

// New creates a new S3-compatible file store.
func New(ctx context.Context, config Config) (*Store, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	if config.Region == "" {
		config.Region = "us-east-1"
	}

	var (
		awsCfg aws.Config
		err    error
	)
	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(config.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			)),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(config.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Options []func(*s3.Options)
	if config.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = config.UsePathStyle
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Options...)

	store := &Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   config.Bucket,
	}

	if config.CreateBucketIfNotExist {
		if err := store.createBucketIfNotExists(ctx); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return store, nil
}

func (s *Store) createBucketIfNotExists(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() != "NotFound" && apiErr.ErrorCode() != "NoSuchBucket" {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case "BucketAlreadyOwnedByYou", "BucketAlreadyExists":
				return nil
			}
		}
		return err
	}
	return nil
}

// SaveMediaFile uploads the bytes at req.Path to the bucket.
func (s *Store) SaveMediaFile(ctx context.Context, req shopdal.SaveMediaFileRequest) error {
	file, err := os.Open(req.Path)
	if err != nil {
		return fmt.Errorf("failed to open media file: %w", err)
	}
	defer file.Close()

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(req)),
		Body:        file,
		ContentType: aws.String(req.MimeType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload media file: %w", err)
	}
	return nil
}

func (s *Store) objectKey(req shopdal.SaveMediaFileRequest) string {
	if req.MediaFolderID != "" {
		return req.MediaFolderID + "/" + req.MediaID + "/" + req.FileName
	}
	return req.MediaID + "/" + req.FileName
}
