// Package storage stores resume documents in an S3-compatible bucket
// (Cloudflare R2 or plain S3) and hands out public URLs.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

type Config struct {
	// Endpoint overrides the S3 endpoint, e.g. an R2 account URL. Empty
	// means plain AWS S3.
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access-key"`
	SecretKey string `mapstructure:"secret-key"`
	// PublicBaseURL is the base under which stored objects are publicly
	// reachable.
	PublicBaseURL string `mapstructure:"public-base-url"`
}

type Store struct {
	client     *s3.Client
	bucket     string
	publicBase string
	logger     *zap.Logger
}

func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("storage bucket is required")
	}
	if strings.TrimSpace(cfg.PublicBaseURL) == "" {
		return nil, errors.New("storage public-base-url is required")
	}

	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("creating aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:     logger,
	}, nil
}

// Upload stores the object and returns its public URL.
func (s *Store) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", s.classify(err)
	}

	s.logger.Debug("uploaded blob", zap.String("key", key), zap.Int("size", len(data)))

	return s.PublicURL(key), nil
}

// Remove deletes the object. A missing object counts as success so deletes
// stay idempotent.
func (s *Store) Remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return s.classify(err)
	}
	return nil
}

// RemoveByURL deletes the object behind a public URL previously returned by
// Upload.
func (s *Store) RemoveByURL(ctx context.Context, fileURL string) error {
	key := s.KeyFromURL(fileURL)
	if key == "" {
		return fmt.Errorf("cannot derive storage key from %q", fileURL)
	}
	return s.Remove(ctx, key)
}

// Download fetches the object behind a public URL.
func (s *Store) Download(ctx context.Context, fileURL string) ([]byte, error) {
	key := s.KeyFromURL(fileURL)
	if key == "" {
		return nil, fmt.Errorf("cannot derive storage key from %q", fileURL)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, s.classify(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading object body: %w", err)
	}
	return data, nil
}

func (s *Store) PublicURL(key string) string {
	return s.publicBase + "/" + key
}

// KeyFromURL recovers the object key from a public URL. URLs minted by this
// store are resolved by trimming the configured public base, so bases that
// never mention the bucket (R2 pub-*.r2.dev domains) round-trip; URLs minted
// under another base fall back to a scan for the bucket path segment.
func (s *Store) KeyFromURL(fileURL string) string {
	if key, ok := strings.CutPrefix(fileURL, s.publicBase+"/"); ok && key != "" {
		return key
	}

	marker := "/" + s.bucket + "/"
	idx := strings.LastIndex(fileURL, marker)
	if idx == -1 {
		return ""
	}
	return fileURL[idx+len(marker):]
}

// classify maps storage errors onto the diagnostics users can act on: a
// missing bucket and a policy rejection get named messages.
func (s *Store) classify(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket":
			return fmt.Errorf("storage bucket %q not found: create a public bucket with this exact name: %w", s.bucket, err)
		case "AccessDenied":
			return fmt.Errorf("permission denied by the storage policy: grant access to bucket %q: %w", s.bucket, err)
		}
	}
	return err
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}
