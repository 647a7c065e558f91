package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/storage"
)

func TestPublishFetchLatest(t *testing.T) {
	store, err := storage.NewLocalClient(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	day := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)
	products := []domain.Product{{ID: "P001", Name: "Organic Coffee Beans", Category: "Grocery", CurrentStock: 45, MinStockLevel: 20, LeadTimeDays: 3, UnitPrice: 18.5, Unit: "kg"}}
	older := []domain.SalesRecord{{ProductID: "P001", Date: day.AddDate(0, 0, -1), UnitsSold: 7}}
	newer := []domain.SalesRecord{{ProductID: "P001", Date: day, UnitsSold: 8}}

	require.NoError(t, Publish(ctx, store, ArchiveKey("owner-1", day.AddDate(0, 0, -1)), products, older))
	require.NoError(t, Publish(ctx, store, ArchiveKey("owner-1", day), products, newer))

	key, err := LatestKey(ctx, store, "snapshots/owner-1")
	require.NoError(t, err)
	assert.Equal(t, "snapshots/owner-1/2024-03-31.xlsx", key)

	wb, err := Fetch(ctx, store, key)
	require.NoError(t, err)
	sales, err := wb.ListSales(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, newer, sales)
}

func TestLatestKeyEmpty(t *testing.T) {
	store, err := storage.NewLocalClient(t.TempDir())
	require.NoError(t, err)

	_, err = LatestKey(context.Background(), store, "snapshots/nobody")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestFetchMissing(t *testing.T) {
	store, err := storage.NewLocalClient(t.TempDir())
	require.NoError(t, err)

	_, err = Fetch(context.Background(), store, "snapshots/missing.xlsx")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}
