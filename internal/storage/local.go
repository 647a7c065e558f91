package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"

	cmstorage "github.com/chartmuseum/storage"
)

// LocalClient implements ObjectStorage on a directory, for development and
// single-host deployments.
type LocalClient struct {
	backend cmstorage.Backend
}

// NewLocalClient roots the archive at dir, creating it if needed.
func NewLocalClient(dir string) (*LocalClient, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage directory must be provided")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed creating storage directory %s: %w", dir, err)
	}
	return &LocalClient{backend: cmstorage.NewLocalFilesystemBackend(dir)}, nil
}

// ListObjects lists all objects under prefix. Keys are relative to the root;
// sizes are not reported.
func (c *LocalClient) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	objects, err := c.backend.ListObjects(prefix)
	if err != nil {
		return nil, fmt.Errorf("storage list failed: %w", err)
	}

	results := make([]ObjectInfo, 0, len(objects))
	for _, object := range objects {
		results = append(results, ObjectInfo{Key: path.Join(prefix, object.Path)})
	}
	return results, nil
}

func (c *LocalClient) GetObject(ctx context.Context, key string) ([]byte, error) {
	object, err := c.backend.GetObject(key)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", key, ErrObjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage get %s failed: %w", key, err)
	}
	return object.Content, nil
}

func (c *LocalClient) PutObject(ctx context.Context, key string, data []byte) error {
	if err := c.backend.PutObject(key, data); err != nil {
		return fmt.Errorf("storage put %s failed: %w", key, err)
	}
	return nil
}

var _ ObjectStorage = (*LocalClient)(nil)
