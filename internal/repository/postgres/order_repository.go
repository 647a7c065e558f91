package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/repository"
)

const orderColumns = `
	id, retailer_id, retailer_business_name, supplier_id, supplier_business_name,
	product_id, product_name, quantity, unit, status, created_at
`

type orderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) ListRetailerOrders(ctx context.Context, retailerID string) ([]domain.SupplyOrder, error) {
	return r.list(ctx, "retailer_id", retailerID)
}

func (r *orderRepository) ListSupplierOrders(ctx context.Context, supplierID string) ([]domain.SupplyOrder, error) {
	return r.list(ctx, "supplier_id", supplierID)
}

// list filters on column, which must be one of the fixed owner columns.
func (r *orderRepository) list(ctx context.Context, column, ownerID string) ([]domain.SupplyOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM supply_orders WHERE %s = $1 ORDER BY created_at ASC, id ASC`, orderColumns, column)

	orders := []domain.SupplyOrder{}
	if err := sqlx.SelectContext(ctx, r.db, &orders, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list orders by %s: %w", column, err)
	}

	return orders, nil
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID string) (*domain.SupplyOrder, error) {
	var o domain.SupplyOrder
	err := sqlx.GetContext(ctx, r.db, &o, `SELECT `+orderColumns+` FROM supply_orders WHERE id = $1`, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}

	return &o, nil
}

func (r *orderRepository) CreateOrder(ctx context.Context, o domain.SupplyOrder) error {
	query := `
		INSERT INTO supply_orders (
			id, retailer_id, retailer_business_name, supplier_id, supplier_business_name,
			product_id, product_name, quantity, unit, status, created_at
		) VALUES (
			:id, :retailer_id, :retailer_business_name, :supplier_id, :supplier_business_name,
			:product_id, :product_name, :quantity, :unit, :status, :created_at
		)
	`

	if _, err := sqlx.NamedExecContext(ctx, r.db, query, o); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *orderRepository) TransitionStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var current domain.OrderStatus
		err := tx.GetContext(ctx, &current,
			`SELECT status FROM supply_orders WHERE id = $1 FOR UPDATE`, orderID)
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock order %s: %w", orderID, err)
		}
		if current != from {
			return fmt.Errorf("%w: %s is %s, expected %s", repository.ErrStaleStatus, orderID, current, from)
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE supply_orders SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`,
			orderID, from, to,
		)
		if err != nil {
			return fmt.Errorf("failed to update order %s: %w", orderID, err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", repository.ErrStaleStatus, orderID)
		}

		return nil
	})
}
