// Package media hands out presigned upload URLs for editorial videos and
// deletes uploaded objects. Works against S3 or any S3-compatible store
// such as MinIO.
package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const presignTTL = 15 * time.Minute

// Store issues upload grants and removes stored objects. Satisfied by *S3Store.
type Store interface {
	// PresignUpload returns a URL the client PUTs the video to, valid for a
	// short window, plus the object key to record.
	PresignUpload(ctx context.Context, key string) (string, error)

	// ObjectURL is the stable playback URL for a stored key.
	ObjectURL(key string) string

	Delete(ctx context.Context, key string) error
}

type Config struct {
	Region    string
	Endpoint  string // empty for AWS proper
	Bucket    string
	AccessKey string
	SecretKey string
	// PublicBaseURL overrides the playback host, e.g. a CDN. Empty means
	// serve straight from the endpoint/bucket.
	PublicBaseURL string
}

type S3Store struct {
	cfg     Config
	client  *s3.Client
	presign *s3.PresignClient
}

var _ Store = (*S3Store)(nil)

func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "",
		)))
	if err != nil {
		return nil, fmt.Errorf("media: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		cfg:     cfg,
		client:  client,
		presign: s3.NewPresignClient(client),
	}, nil
}

func (s *S3Store) PresignUpload(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", fmt.Errorf("media: presign upload: %w", err)
	}
	return req.URL, nil
}

func (s *S3Store) ObjectURL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
	}
	if s.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("media: delete object: %w", err)
	}
	return nil
}
