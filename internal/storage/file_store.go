package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore keeps document blobs on the local filesystem under
// {root}/{ownerID}/{unixNanos}-{fileName}. Locators are paths relative
// to root; the timestamp keeps repeated uploads of the same filename
// from sharing a locator.
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	if root == "" {
		return nil, errors.New("storage root required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) Put(ctx context.Context, ownerID string, fileName string, r io.Reader, size int64, contentType string) (string, error) {
	// Nanosecond precision: local writes finish fast enough for two
	// uploads of the same name to share a millisecond.
	blobName := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(fileName))
	locator := filepath.ToSlash(filepath.Join(ownerID, blobName))

	abs, err := s.resolve(locator)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create owner dir: %w", err)
	}

	f, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("create blob file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(abs)
		return "", fmt.Errorf("write blob: %w", err)
	}

	return locator, nil
}

func (s *FileStore) Get(ctx context.Context, locator string) (io.ReadCloser, error) {
	abs, err := s.resolve(locator)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

func (s *FileStore) Delete(ctx context.Context, locator string) error {
	abs, err := s.resolve(locator)
	if err != nil {
		return err
	}

	if err := os.Remove(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}

// resolve rejects locators that would escape the storage root.
func (s *FileStore) resolve(locator string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(locator))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid locator %q", locator)
	}
	return filepath.Join(s.root, clean), nil
}
