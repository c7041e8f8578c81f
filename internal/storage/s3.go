// Package storage holds the evidence file store. Uploads happen before the
// case row is written; an upload failure aborts the filing.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/castlinked/castlinked-backend/internal/config"
)

// EvidenceStore persists uploaded evidence files and returns their public
// location.
type EvidenceStore interface {
	Store(ctx context.Context, body io.Reader, filename, contentType string) (url string, storedName string, err error)
}

// S3Store stores evidence in an S3 bucket under a per-filing key.
type S3Store struct {
	client *s3.Client
	bucket string
	region string
	folder string
}

func NewS3Store(cfg *config.Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Store{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.S3Bucket,
		region: cfg.S3Region,
		folder: cfg.S3Folder,
	}, nil
}

func (s *S3Store) Store(ctx context.Context, body io.Reader, filename, contentType string) (string, string, error) {
	// Random prefix so colliding filenames from different filings never
	// overwrite each other.
	storedName := uuid.New().String() + path.Ext(filename)
	key := fmt.Sprintf("%s/%s", s.folder, storedName)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", fmt.Errorf("evidence upload failed: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	return publicURL, storedName, nil
}
