// Package storage uploads run reports to S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Prefix    string
}

// Enabled reports whether enough is configured to upload.
func (c Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

type Storage struct {
	client *miniogo.Client
	bucket string
	prefix string
}

func NewStorage(cfg Config) (*Storage, error) {
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &Storage{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

func (s *Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, miniogo.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// UploadReport stores the report file at localPath and returns its object key.
func (s *Storage) UploadReport(ctx context.Context, localPath string) (string, error) {
	key := ObjectKey(s.prefix, localPath)
	_, err := s.client.FPutObject(ctx, s.bucket, key, localPath, miniogo.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("upload report: %w", err)
	}
	return key, nil
}

func ObjectKey(prefix, localPath string) string {
	name := filepath.Base(localPath)
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}
