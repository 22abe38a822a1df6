// File: /storage/store.go
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"tabor-blooms-api/config"
)

// Collection keys. Each key holds one whole JSON array; the store has
// no sub-document granularity.
const (
	KeyPosts    = "posts"
	KeyComments = "comments"
)

// DocumentStore persists whole JSON collections under string keys.
//
// Read decodes the value at key into out. Any failure - missing key,
// network error, malformed content - leaves out at the caller-supplied
// default and is never surfaced as an error; a wrong-but-available
// empty result beats an outage. Write is a full overwrite of the value
// at key, and write failures do propagate: silently losing a write
// would corrupt the forum's record.
type DocumentStore interface {
	Read(ctx context.Context, key string, out interface{})
	Write(ctx context.Context, key string, doc interface{}) error
}

// ImageStore holds uploaded post images and hands back public URLs.
// Upload-only; the forum never deletes or rewrites image bytes.
type ImageStore interface {
	Upload(ctx context.Context, objectKey string, data []byte, contentType string) (string, error)
}

// NewDocumentStore selects a backend from the explicit configuration
// value. Both backends behave identically from the repository's point
// of view.
func NewDocumentStore(cfg *config.Config, logger *zap.Logger) (DocumentStore, error) {
	switch cfg.StorageBackend {
	case config.BackendLocal:
		return NewLocalStore(cfg.DataDir, logger), nil
	case config.BackendMinio:
		return NewMinioStore(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// NewImageStore mirrors the document store selection for image bytes.
func NewImageStore(cfg *config.Config, logger *zap.Logger) (ImageStore, error) {
	switch cfg.StorageBackend {
	case config.BackendLocal:
		return NewLocalImageStore(cfg.DataDir, logger), nil
	case config.BackendMinio:
		return NewMinioImageStore(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
