package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// LocalStore keeps one JSON file per key in a data directory. It is
// the development backend; the directory is created on first write.
type LocalStore struct {
	dir    string
	logger *zap.Logger
}

func NewLocalStore(dir string, logger *zap.Logger) *LocalStore {
	return &LocalStore{dir: dir, logger: logger}
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *LocalStore) Read(ctx context.Context, key string, out interface{}) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("document read failed, using default",
				zap.String("key", key), zap.Error(err))
		}
		return
	}

	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("document unmarshal failed, using default",
			zap.String("key", key), zap.Error(err))
	}
}

func (s *LocalStore) Write(ctx context.Context, key string, doc interface{}) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document %q: %w", key, err)
	}

	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("write document %q: %w", key, err)
	}

	return nil
}

// LocalImageStore writes uploaded images under <dataDir>/uploads and
// returns paths the router serves statically.
type LocalImageStore struct {
	dir    string
	logger *zap.Logger
}

func NewLocalImageStore(dataDir string, logger *zap.Logger) *LocalImageStore {
	return &LocalImageStore{dir: filepath.Join(dataDir, "uploads"), logger: logger}
}

// UploadsDir is where the router mounts the static file handler.
func (s *LocalImageStore) UploadsDir() string {
	return s.dir
}

func (s *LocalImageStore) Upload(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	dest := filepath.Join(s.dir, filepath.FromSlash(objectKey))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("write image %q: %w", objectKey, err)
	}

	return "/uploads/" + objectKey, nil
}
