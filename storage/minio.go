package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"tabor-blooms-api/config"
)

// MinioStore is the production backend. Object storage offers no
// atomic read-modify-write at a fixed address, so a key maps to an
// object prefix instead of a single name: writes put a fresh
// timestamped object under <key>/ and then sweep every older object
// sharing the prefix, leaving exactly one live object per key. Reads
// list the prefix and fetch the newest object, so the freshest write
// wins while duplicates transiently exist. Every call goes straight to
// the store; there is no cache in between.
type MinioStore struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

func newMinioClient(cfg *config.Config) (*minio.Client, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return client, nil
}

func NewMinioStore(cfg *config.Config, logger *zap.Logger) (*MinioStore, error) {
	client, err := newMinioClient(cfg)
	if err != nil {
		return nil, err
	}

	return &MinioStore{
		client: client,
		bucket: cfg.MinioBucket,
		logger: logger,
	}, nil
}

func (s *MinioStore) prefix(key string) string {
	return key + "/"
}

// newestObject returns the most recently uploaded object under the
// key's prefix, or "" when none exist.
func (s *MinioStore) newestObject(ctx context.Context, key string) (string, error) {
	var (
		newest   string
		newestAt time.Time
	)

	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.prefix(key),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return "", obj.Err
		}
		if newest == "" || obj.LastModified.After(newestAt) {
			newest = obj.Key
			newestAt = obj.LastModified
		}
	}

	return newest, nil
}

func (s *MinioStore) Read(ctx context.Context, key string, out interface{}) {
	name, err := s.newestObject(ctx, key)
	if err != nil {
		s.logger.Warn("document listing failed, using default",
			zap.String("key", key), zap.Error(err))
		return
	}
	if name == "" {
		return
	}

	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		s.logger.Warn("document fetch failed, using default",
			zap.String("key", key), zap.Error(err))
		return
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		s.logger.Warn("document read failed, using default",
			zap.String("key", key), zap.Error(err))
		return
	}

	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("document unmarshal failed, using default",
			zap.String("key", key), zap.Error(err))
	}
}

func (s *MinioStore) Write(ctx context.Context, key string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document %q: %w", key, err)
	}

	name := fmt.Sprintf("%s/%d.json", key, time.Now().UnixNano())
	_, err = s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("write document %q: %w", key, err)
	}

	// Sweep stale objects so exactly one live object represents the key.
	// A failed sweep is tolerable: reads pick the newest object anyway.
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.prefix(key),
		Recursive: true,
	}) {
		if obj.Err != nil {
			s.logger.Warn("stale object sweep listing failed",
				zap.String("key", key), zap.Error(obj.Err))
			break
		}
		if obj.Key == name {
			continue
		}
		if err := s.client.RemoveObject(ctx, s.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			s.logger.Warn("stale object removal failed",
				zap.String("object", obj.Key), zap.Error(err))
		}
	}

	return nil
}

// MinioImageStore uploads post images into the same bucket under
// their own prefix and returns the public object URL.
type MinioImageStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
	logger  *zap.Logger
}

func NewMinioImageStore(cfg *config.Config, logger *zap.Logger) (*MinioImageStore, error) {
	client, err := newMinioClient(cfg)
	if err != nil {
		return nil, err
	}

	scheme := "http"
	if cfg.MinioUseSSL {
		scheme = "https"
	}
	baseURL := cfg.MinioPublicURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.MinioBucket)
	}

	return &MinioImageStore{
		client:  client,
		bucket:  cfg.MinioBucket,
		baseURL: baseURL,
		logger:  logger,
	}, nil
}

func (s *MinioImageStore) Upload(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload image %q: %w", objectKey, err)
	}

	return s.baseURL + "/" + objectKey, nil
}
