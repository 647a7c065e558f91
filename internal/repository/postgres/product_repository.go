package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/repository"
)

const productColumns = `
	owner_id, id, name, category, current_stock, min_stock_level,
	lead_time_days, unit_price, unit, supplier_name, supplier_phone, supplier_id
`

type productRepository struct {
	db *DB
}

// NewProductRepository serves catalog reads and stock movements.
func NewProductRepository(db *DB) *productRepository {
	return &productRepository{db: db}
}

var (
	_ repository.ProductRepository   = (*productRepository)(nil)
	_ repository.SalesRepository     = (*productRepository)(nil)
	_ repository.InventoryRepository = (*productRepository)(nil)
)

func (r *productRepository) ListProducts(ctx context.Context, ownerID string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE owner_id = $1 ORDER BY id ASC`

	products := []domain.Product{}
	if err := sqlx.SelectContext(ctx, r.db, &products, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

func (r *productRepository) GetProduct(ctx context.Context, ownerID, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE owner_id = $1 AND id = $2`

	var p domain.Product
	err := sqlx.GetContext(ctx, r.db, &p, query, ownerID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}

	return &p, nil
}

func (r *productRepository) ListSales(ctx context.Context, ownerID string) ([]domain.SalesRecord, error) {
	query := `
		SELECT product_id, sale_date, units_sold, is_promotion
		FROM sales_records
		WHERE owner_id = $1
		ORDER BY sale_date DESC, id ASC
	`

	sales := []domain.SalesRecord{}
	if err := sqlx.SelectContext(ctx, r.db, &sales, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	return sales, nil
}

func (r *productRepository) Restock(ctx context.Context, ownerID, productID string, quantity float64) (*domain.Product, error) {
	query := `
		UPDATE products
		SET current_stock = current_stock + $3, updated_at = NOW()
		WHERE owner_id = $1 AND id = $2
		RETURNING ` + productColumns

	var p domain.Product
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &p, query, ownerID, productID, quantity)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to restock product %s: %w", productID, err)
	}

	return &p, nil
}

func (r *productRepository) Checkout(ctx context.Context, bill domain.Bill, day time.Time) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO bills (id, owner_id, created_at, total) VALUES ($1, $2, $3, $4)`,
			bill.ID, bill.OwnerID, bill.CreatedAt, bill.Total,
		); err != nil {
			return fmt.Errorf("failed to insert bill: %w", err)
		}

		for i, item := range bill.Items {
			res, err := tx.ExecContext(ctx, `
				UPDATE products
				SET current_stock = GREATEST(0, current_stock - $3), updated_at = NOW()
				WHERE owner_id = $1 AND id = $2
			`, bill.OwnerID, item.ProductID, item.Quantity)
			if err != nil {
				return fmt.Errorf("failed to decrement stock for %s: %w", item.ProductID, err)
			}
			if n, err := res.RowsAffected(); err == nil && n == 0 {
				return fmt.Errorf("product %s: %w", item.ProductID, repository.ErrNotFound)
			}

			if _, err := tx.ExecContext(ctx, `
				INSERT INTO bill_items (bill_id, line, product_id, name, quantity, price)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, bill.ID, i+1, item.ProductID, item.Name, item.Quantity, item.Price); err != nil {
				return fmt.Errorf("failed to insert bill item: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				INSERT INTO sales_records (owner_id, product_id, sale_date, units_sold)
				VALUES ($1, $2, $3, $4)
			`, bill.OwnerID, item.ProductID, day.Format(domain.DateLayout), item.Quantity); err != nil {
				return fmt.Errorf("failed to record sale: %w", err)
			}
		}

		return nil
	})
}
