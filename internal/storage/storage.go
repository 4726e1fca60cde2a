package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"societydocs/api/internal/config"
)

var ErrObjectNotFound = errors.New("object not found")

// BlobStore abstracts durable byte storage behind a locator. Exactly one
// driver is active per deployment; callers never see which.
type BlobStore interface {
	// Put writes the bytes and returns a locator that resolves them for
	// the lifetime of the owning document.
	Put(ctx context.Context, ownerID string, fileName string, r io.Reader, size int64, contentType string) (string, error)
	Get(ctx context.Context, locator string) (io.ReadCloser, error)
	Delete(ctx context.Context, locator string) error
}

func New(cfg config.StorageConfig) (BlobStore, error) {
	switch cfg.Driver {
	case "minio":
		return NewObjectStore(cfg)
	case "filesystem":
		return NewFileStore(cfg.Root)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
