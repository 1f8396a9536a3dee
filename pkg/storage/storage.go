package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	// ErrNotConfigured is returned when no object store endpoint is set.
	ErrNotConfigured = errors.New("storage: not configured")
	// ErrForeignURL is returned for an image URL outside this bucket.
	ErrForeignURL = errors.New("storage: url does not belong to this bucket")
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL overrides the scheme://endpoint prefix of returned URLs.
	PublicURL string
}

// ImageStore uploads images to a MinIO/S3 bucket and returns their public URL.
type ImageStore struct {
	client *minio.Client
	cfg    Config
}

// New connects and makes sure the bucket exists.
func New(ctx context.Context, cfg Config) (*ImageStore, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNotConfigured
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("storage: bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("storage: create bucket %s: %w", cfg.Bucket, err)
		}
	}
	return &ImageStore{client: client, cfg: cfg}, nil
}

// Upload stores r under folder with a generated name and returns its URL.
func (s *ImageStore) Upload(ctx context.Context, folder, filename string, r io.Reader, size int64, contentType string) (string, error) {
	if s == nil || s.client == nil {
		return "", ErrNotConfigured
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("storage: unsupported content type %q", contentType)
	}
	name := ObjectName(folder, filename, time.Now())
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("storage: upload %s: %w", name, err)
	}
	return s.URL(name), nil
}

// Delete removes the object behind an URL returned by Upload.
func (s *ImageStore) Delete(ctx context.Context, imageURL string) error {
	if s == nil || s.client == nil {
		return ErrNotConfigured
	}
	name, ok := ObjectFromURL(s.cfg, imageURL)
	if !ok {
		return ErrForeignURL
	}
	if err := s.client.RemoveObject(ctx, s.cfg.Bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("storage: delete %s: %w", name, err)
	}
	return nil
}

// URL returns the public URL of an object.
func (s *ImageStore) URL(name string) string {
	return PublicURL(s.cfg, name)
}

func PublicURL(cfg Config, name string) string {
	base := cfg.PublicURL
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.Endpoint
	}
	return strings.TrimRight(base, "/") + "/" + cfg.Bucket + "/" + name
}

// ObjectFromURL is the inverse of PublicURL.
func ObjectFromURL(cfg Config, imageURL string) (string, bool) {
	prefix := PublicURL(cfg, "")
	if !strings.HasPrefix(imageURL, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(imageURL, prefix)
	if name == "" || strings.Contains(name, "..") {
		return "", false
	}
	return name, true
}

// ObjectName builds "<folder>/<unix>_<uuid><ext>".
func ObjectName(folder, filename string, at time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	name := fmt.Sprintf("%d_%s%s", at.Unix(), uuid.New().String(), ext)
	if folder == "" {
		return name
	}
	return strings.Trim(folder, "/") + "/" + name
}
