package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/storage"
)

// ArchiveKey names the snapshot of owner taken on day.
func ArchiveKey(owner string, day time.Time) string {
	return path.Join("snapshots", owner, day.Format(domain.DateLayout)+".xlsx")
}

// Fetch downloads and parses the workbook stored under key.
func Fetch(ctx context.Context, store storage.ObjectStorage, key string) (*Workbook, error) {
	data, err := store.GetObject(ctx, key)
	if err != nil {
		return nil, err
	}
	return Read(bytes.NewReader(data))
}

// Publish renders products and sales and stores them under key.
func Publish(ctx context.Context, store storage.ObjectStorage, key string, products []domain.Product, sales []domain.SalesRecord) error {
	var buf bytes.Buffer
	if err := Write(&buf, products, sales); err != nil {
		return err
	}
	return store.PutObject(ctx, key, buf.Bytes())
}

// LatestKey returns the newest .xlsx key under prefix. Keys written by
// ArchiveKey sort chronologically.
func LatestKey(ctx context.Context, store storage.ObjectStorage, prefix string) (string, error) {
	objects, err := store.ListObjects(ctx, prefix)
	if err != nil {
		return "", err
	}

	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		if strings.HasSuffix(strings.ToLower(o.Key), ".xlsx") {
			keys = append(keys, o.Key)
		}
	}
	if len(keys) == 0 {
		return "", fmt.Errorf("no snapshots under %q: %w", prefix, storage.ErrObjectNotFound)
	}

	sort.Strings(keys)
	return keys[len(keys)-1], nil
}
