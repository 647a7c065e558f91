package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksr-21/smartstock/internal/demo"
	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/repository"
	"github.com/ksr-21/smartstock/internal/service"
)

var today = time.Date(2024, time.March, 31, 9, 0, 0, 0, time.UTC)

var errDown = errors.New("database down")

// fakeStore serves the demo catalog for every owner. Owners listed in
// failures fail that many ListSales calls before succeeding; -1 fails forever.
type fakeStore struct {
	mu       sync.Mutex
	failures map[string]int
	orders   map[string][]domain.SupplyOrder
}

func newFakeStore() *fakeStore {
	return &fakeStore{failures: map[string]int{}, orders: map[string][]domain.SupplyOrder{}}
}

func (f *fakeStore) ListProducts(context.Context, string) ([]domain.Product, error) {
	return demo.Products(), nil
}

func (f *fakeStore) GetProduct(_ context.Context, _, productID string) (*domain.Product, error) {
	for _, p := range demo.Products() {
		if p.ID == productID {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) ListSales(_ context.Context, ownerID string) ([]domain.SalesRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch n := f.failures[ownerID]; {
	case n < 0:
		return nil, errDown
	case n > 0:
		f.failures[ownerID] = n - 1
		return nil, errDown
	}

	var sales []domain.SalesRecord
	for _, p := range demo.Products() {
		units := 10.0
		if p.ID == "P001" {
			units = 8
		}
		for i := 0; i < 14; i++ {
			sales = append(sales, domain.SalesRecord{ProductID: p.ID, Date: today.AddDate(0, 0, -i), UnitsSold: units})
		}
	}
	return sales, nil
}

func (f *fakeStore) ListRetailerOrders(_ context.Context, id string) ([]domain.SupplyOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.SupplyOrder(nil), f.orders[id]...), nil
}

func (f *fakeStore) ListSupplierOrders(context.Context, string) ([]domain.SupplyOrder, error) {
	return nil, nil
}

func (f *fakeStore) GetOrder(context.Context, string) (*domain.SupplyOrder, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeStore) CreateOrder(context.Context, domain.SupplyOrder) error { return nil }

func (f *fakeStore) TransitionStatus(context.Context, string, domain.OrderStatus, domain.OrderStatus) error {
	return nil
}

func (f *fakeStore) setOrders(owner string, orders ...domain.SupplyOrder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[owner] = orders
}

type memRecorder struct {
	created []BatchRun
	updated []BatchRun
}

func (m *memRecorder) CreateRun(_ context.Context, run *BatchRun) error {
	run.ID = int64(len(m.created) + 1)
	m.created = append(m.created, *run)
	return nil
}

func (m *memRecorder) UpdateRun(_ context.Context, run *BatchRun) error {
	m.updated = append(m.updated, *run)
	return nil
}

func newRunner(store *fakeStore, recorder RunRecorder, cfg RunnerConfig) *Runner {
	forecasts := service.NewForecastService(store, store, nil, 7)
	anomalies := service.NewAnomalyService(store, store, store, nil)
	r := NewRunner(forecasts, anomalies, recorder, cfg)
	r.now = func() time.Time { return today }
	return r
}

func TestRunnerKeepsInputOrder(t *testing.T) {
	store := newFakeStore()
	runner := newRunner(store, nil, RunnerConfig{WorkerCount: 3, RetryAttempts: 1})

	owners := []string{"o1", "o2", "o3", "o4", "o5", "o6", "o7"}
	reports, err := runner.Run(context.Background(), owners)

	require.NoError(t, err)
	require.Len(t, reports, len(owners))
	for i, rep := range reports {
		assert.Equal(t, owners[i], rep.OwnerID)
		assert.False(t, rep.Failed())
		require.Len(t, rep.Forecasts, 5)
		assert.Equal(t, 35, rep.Forecasts[0].RecommendedRestock)
		require.Len(t, rep.Anomalies, 1)
		assert.Equal(t, "AN-P002-LOW", rep.Anomalies[0].ID)
		assert.Equal(t, domain.RiskStable, rep.Assessment.RiskLevel)
	}
}

func TestRunnerIsolatesFailures(t *testing.T) {
	store := newFakeStore()
	store.failures["broken"] = -1
	recorder := &memRecorder{}
	runner := newRunner(store, recorder, RunnerConfig{WorkerCount: 2, RetryAttempts: 2})

	reports, err := runner.Run(context.Background(), []string{"a", "broken", "b"})

	require.NoError(t, err)
	assert.False(t, reports[0].Failed())
	assert.True(t, reports[1].Failed())
	assert.ErrorIs(t, reports[1].Err, errDown)
	assert.Equal(t, reports[1].Err.Error(), reports[1].Error)
	assert.Empty(t, reports[0].Error)
	assert.Equal(t, 2, reports[1].Attempts)
	assert.False(t, reports[2].Failed())

	require.Len(t, recorder.created, 1)
	require.Len(t, recorder.updated, 1)
	assert.Equal(t, 3, recorder.updated[0].TotalOwners)
	assert.Equal(t, 1, recorder.updated[0].FailedOwners)
	assert.Equal(t, StatusFailed, recorder.updated[0].Status)
	assert.Contains(t, recorder.updated[0].ErrorMessage, "broken")
}

func TestRunnerRetriesTransientErrors(t *testing.T) {
	store := newFakeStore()
	store.failures["flaky"] = 1
	runner := newRunner(store, nil, RunnerConfig{WorkerCount: 1, RetryAttempts: 3})

	reports, err := runner.Run(context.Background(), []string{"flaky"})

	require.NoError(t, err)
	assert.False(t, reports[0].Failed())
	assert.Equal(t, 2, reports[0].Attempts)
}

func TestRunnerNoOwners(t *testing.T) {
	recorder := &memRecorder{}
	runner := newRunner(newFakeStore(), recorder, DefaultRunnerConfig())

	reports, err := runner.Run(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, reports)
	assert.Empty(t, recorder.created)
}

func TestSchedulerTracksOrderUpdates(t *testing.T) {
	store := newFakeStore()
	runner := newRunner(store, nil, RunnerConfig{WorkerCount: 2, RetryAttempts: 1})
	scheduler := NewScheduler(runner, store, []string{"r1", "r2"})
	ctx := context.Background()

	order := domain.SupplyOrder{ID: "ord-1", RetailerID: "r1", Status: domain.OrderPending}
	store.setOrders("r1", order)

	_, ok := scheduler.Latest()
	assert.False(t, ok)

	first := scheduler.Tick(ctx)
	assert.Len(t, first.Reports, 2)
	assert.Empty(t, first.OrderUpdates)

	order.Status = domain.OrderShipped
	store.setOrders("r1", order, domain.SupplyOrder{ID: "ord-2", RetailerID: "r1", Status: domain.OrderCancelled})

	second := scheduler.Tick(ctx)
	assert.Equal(t, map[string]int{"r1": 2}, second.OrderUpdates)

	latest, ok := scheduler.Latest()
	require.True(t, ok)
	assert.Equal(t, second.OrderUpdates, latest.OrderUpdates)
	r1, ok := latest.Report("r1")
	require.True(t, ok)
	assert.Equal(t, "r1", r1.OwnerID)
	_, ok = latest.Report("nobody")
	assert.False(t, ok)

	third := scheduler.Tick(ctx)
	assert.Empty(t, third.OrderUpdates)
	latest, _ = scheduler.Latest()
	assert.Empty(t, latest.OrderUpdates)
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	scheduler := NewScheduler(newRunner(newFakeStore(), nil, DefaultRunnerConfig()), nil, []string{"r1"})

	assert.Error(t, scheduler.Start("every tuesday"))
}
