package storage

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksr-21/smartstock/internal/config"
)

func TestLocalClientRoundTrip(t *testing.T) {
	client, err := NewLocalClient(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, client.PutObject(ctx, "snapshots/2024-03-30.xlsx", []byte("first")))
	require.NoError(t, client.PutObject(ctx, "snapshots/2024-03-31.xlsx", []byte("second")))
	require.NoError(t, client.PutObject(ctx, "other/readme.txt", []byte("x")))

	data, err := client.GetObject(ctx, "snapshots/2024-03-31.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	objects, err := client.ListObjects(ctx, "snapshots")
	require.NoError(t, err)
	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		keys = append(keys, o.Key)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"snapshots/2024-03-30.xlsx", "snapshots/2024-03-31.xlsx"}, keys)
}

func TestLocalClientMissingObject(t *testing.T) {
	client, err := NewLocalClient(t.TempDir())
	require.NoError(t, err)

	_, err = client.GetObject(context.Background(), "nope.xlsx")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestNewSelectsDriver(t *testing.T) {
	store, err := New(config.StorageConfig{LocalDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalClient{}, store)

	_, err = New(config.StorageConfig{Driver: "s3"})
	assert.Error(t, err)

	_, err = New(config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)

	store, err = New(config.StorageConfig{
		Driver:    "s3",
		Endpoint:  "https://objects.example.test",
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "snapshots",
	})
	require.NoError(t, err)
	assert.IsType(t, &S3Client{}, store)
}
