package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ksr-21/smartstock/internal/cache"
	"github.com/ksr-21/smartstock/internal/config"
	"github.com/ksr-21/smartstock/internal/demo"
	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/drive"
	"github.com/ksr-21/smartstock/internal/snapshot"
	"github.com/ksr-21/smartstock/internal/storage"
	"github.com/ksr-21/smartstock/pkg/logger"
)

func runDemo(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	owner := c.String("owner")
	products := demo.Products()
	sales := demo.Sales(products, today(c), c.Int64("seed"))

	profile := domain.Profile{
		ID:           owner,
		Username:     owner,
		Role:         domain.RoleRetailer,
		BusinessName: c.String("business-name"),
	}

	err = withTx(c.Context, db, func(tx *sql.Tx) error {
		if err := upsertProfile(c.Context, tx, profile); err != nil {
			return err
		}
		return replaceCatalog(c.Context, tx, owner, products, sales)
	})
	if err != nil {
		return err
	}

	dropCachedExplanations(c.Context, config.Load().Cache)
	return nil
}

func runWorkbook(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	var wb *snapshot.Workbook
	switch {
	case c.String("file") != "":
		wb, err = snapshot.Open(c.String("file"))
	case c.String("object") != "":
		var store storage.ObjectStorage
		if store, err = storage.New(config.Load().Storage); err == nil {
			wb, err = snapshot.Fetch(c.Context, store, c.String("object"))
		}
	default:
		err = fmt.Errorf("one of --file or --object is required")
	}
	if err != nil {
		return err
	}

	owner := c.String("owner")
	products, err := wb.ListProducts(c.Context, owner)
	if err != nil {
		return err
	}
	sales, err := wb.ListSales(c.Context, owner)
	if err != nil {
		return err
	}

	err = withTx(c.Context, db, func(tx *sql.Tx) error {
		return replaceCatalog(c.Context, tx, owner, products, sales)
	})
	if err != nil {
		return err
	}

	dropCachedExplanations(c.Context, config.Load().Cache)
	return nil
}

// dropCachedExplanations clears advisor answers after a catalog reload, since
// they quote stock levels that no longer hold. A cache that cannot be reached
// only logs.
func dropCachedExplanations(ctx context.Context, cfg config.CacheConfig) int {
	explanations, err := cache.NewExplanationCache(cfg)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("explanation cache unavailable, cached answers not cleared")
		return 0
	}
	defer explanations.Close()

	n, err := explanations.InvalidateAll(ctx)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("failed to clear cached explanations")
	}
	if n > 0 {
		logger.Log.Info().Int("keys", n).Msg("cleared cached explanations")
	}
	return n
}

func runExportDemo(c *cli.Context) error {
	now := time.Now().UTC()
	products := demo.Products()
	sales := demo.Sales(products, now, c.Int64("seed"))

	if owner := c.String("archive-owner"); owner != "" {
		store, err := storage.New(config.Load().Storage)
		if err != nil {
			return err
		}
		key := snapshot.ArchiveKey(owner, now)
		if err := snapshot.Publish(c.Context, store, key, products, sales); err != nil {
			return err
		}
		logger.Log.Info().Str("key", key).Msg("demo workbook archived")
	}

	out, err := os.Create(c.String("out"))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", c.String("out"), err)
	}
	defer out.Close()

	if err := snapshot.Write(out, products, sales); err != nil {
		return err
	}

	logger.Log.Info().Str("path", c.String("out")).Int("products", len(products)).Int("sales", len(sales)).Msg("demo workbook written")
	return nil
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Defer a rollback in case anything fails.
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func upsertProfile(ctx context.Context, tx *sql.Tx, p domain.Profile) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO profiles (id, username, email, role, business_name, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			role = EXCLUDED.role,
			business_name = EXCLUDED.business_name`,
		p.ID, p.Username, p.Email, p.Role, p.BusinessName, nullIfEmpty(p.PhoneNumber))
	if err != nil {
		return fmt.Errorf("failed to upsert profile %s: %w", p.ID, err)
	}
	return nil
}

// replaceCatalog upserts products and replaces the owner's sales history.
func replaceCatalog(ctx context.Context, tx *sql.Tx, owner string, products []domain.Product, sales []domain.SalesRecord) error {
	for _, p := range products {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO products (owner_id, id, name, category, current_stock, min_stock_level,
				lead_time_days, unit_price, unit, supplier_name, supplier_phone, supplier_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (owner_id, id) DO UPDATE SET
				name = EXCLUDED.name,
				category = EXCLUDED.category,
				current_stock = EXCLUDED.current_stock,
				min_stock_level = EXCLUDED.min_stock_level,
				lead_time_days = EXCLUDED.lead_time_days,
				unit_price = EXCLUDED.unit_price,
				unit = EXCLUDED.unit,
				supplier_name = EXCLUDED.supplier_name,
				supplier_phone = EXCLUDED.supplier_phone,
				supplier_id = EXCLUDED.supplier_id,
				updated_at = NOW()`,
			owner, p.ID, p.Name, p.Category, p.CurrentStock, p.MinStockLevel,
			p.LeadTimeDays, p.UnitPrice, p.Unit,
			nullIfEmpty(p.SupplierName), nullIfEmpty(p.SupplierPhone), nullIfEmpty(p.SupplierID))
		if err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", p.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sales_records WHERE owner_id = $1`, owner); err != nil {
		return fmt.Errorf("failed to clear sales: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sales_records (owner_id, product_id, sale_date, units_sold, is_promotion)
		VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return fmt.Errorf("failed to prepare sales insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range sales {
		if _, err := stmt.ExecContext(ctx, owner, s.ProductID, s.Date, s.UnitsSold, s.IsPromotion); err != nil {
			return fmt.Errorf("failed to insert sale for %s: %w", s.ProductID, err)
		}
	}

	logger.Log.Info().
		Str("owner_id", owner).
		Int("products", len(products)).
		Int("sales", len(sales)).
		Msg("catalog seeded")
	return nil
}

func runDriveSync(c *cli.Context) error {
	cfg := config.Load()
	if cfg.Drive.CredentialsJSON == "" {
		return fmt.Errorf("GOOGLE_DRIVE_CREDENTIALS_JSON is not set")
	}

	folderPath := c.String("folder")
	if folderPath == "" {
		folderPath = cfg.Drive.FolderPath
	}

	svc, err := drive.NewService(c.Context, cfg.Drive.CredentialsJSON)
	if err != nil {
		return err
	}
	folderID, err := svc.FindFolderByPath(c.Context, folderPath)
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		return err
	}

	result, err := drive.NewSyncer(svc, store).Sync(c.Context, folderID, c.String("owner"))
	if err != nil {
		return err
	}

	for _, key := range result.Archived {
		fmt.Fprintln(c.App.Writer, key)
	}
	if len(result.Skipped) > 0 {
		logger.Log.Warn().Strs("files", result.Skipped).Msg("some drive files were not archived")
	}
	return nil
}
