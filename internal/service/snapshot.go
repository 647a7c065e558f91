package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/repository"
)

// Snapshot is one owner's catalog and sales history read together.
type Snapshot struct {
	Products []domain.Product
	Sales    []domain.SalesRecord
}

// loadSnapshot fetches products and sales concurrently.
func loadSnapshot(ctx context.Context, products repository.ProductRepository, sales repository.SalesRepository, ownerID string) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := products.ListProducts(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		snap.Products = p
		return nil
	})
	g.Go(func() error {
		s, err := sales.ListSales(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("load sales: %w", err)
		}
		snap.Sales = s
		return nil
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
