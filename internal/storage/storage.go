// Package storage keeps user avatars in MinIO or Google Cloud Storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/taskboard-pm/apiserver/config"
)

// Supported STORAGE_BACKEND values.
const (
	BackendMinio = "minio"
	BackendGCS   = "gcs"
)

// ErrObjectNotFound is returned by Get when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Object is an open object body with its metadata. Callers close Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// ObjectStorage is implemented by every storage backend.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (Object, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open connects to the backend selected by cfg.Backend and makes sure its
// bucket exists. It returns a nil ObjectStorage and no error when no backend
// is configured.
func Open(ctx context.Context, cfg config.StorageConfig) (ObjectStorage, error) {
	var (
		backend ObjectStorage
		err     error
	)
	switch cfg.Backend {
	case "":
		return nil, nil
	case BackendMinio:
		backend, err = NewMinioClient(cfg.Minio)
	case BackendGCS:
		backend, err = NewGCSClient(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if err := backend.EnsureBucket(ctx); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}
	return backend, nil
}
