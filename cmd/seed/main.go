package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/repository/postgres"
	"github.com/ksr-21/smartstock/pkg/logger"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newOwnerFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "owner",
		Usage:    "Retailer account id that owns the seeded catalog",
		Required: true,
		EnvVars:  []string{"SEED_OWNER"},
	}
}

// nullIfEmpty returns NULL if the string is empty, otherwise returns the string
func nullIfEmpty(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(c.Context); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) (*sql.DB, error) {
	db, ok := c.Context.Value(dbKey).(*sql.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not initialised")
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("could not load .env file")
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the SmartStock database",
		Commands: []*cli.Command{
			{
				Name:   "schema",
				Usage:  "Create the tables used by the API",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runSchema,
			},
			{
				Name:  "demo",
				Usage: "Seed the five-product demo catalog with a month of sales",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newOwnerFlag(),
					&cli.StringFlag{
						Name:  "business-name",
						Usage: "Display name of the retailer profile",
						Value: "SmartStock Demo Store",
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "Random seed for the generated sales history",
						Value: 42,
					},
					&cli.TimestampFlag{
						Name:   "today",
						Usage:  "Last day of the generated history (YYYY-MM-DD)",
						Layout: domain.DateLayout,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runDemo,
			},
			{
				Name:  "xlsx",
				Usage: "Import products and sales from a workbook",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newOwnerFlag(),
					&cli.StringFlag{
						Name:  "file",
						Usage: "Workbook with products and sales sheets",
					},
					&cli.StringFlag{
						Name:  "object",
						Usage: "Archive key of the workbook, read from STORAGE_* storage",
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runWorkbook,
			},
			{
				Name:  "export-demo",
				Usage: "Write the demo catalog and sales to a workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Usage: "Output path",
						Value: "smartstock_demo.xlsx",
					},
					&cli.StringFlag{
						Name:  "archive-owner",
						Usage: "Also publish the workbook to the snapshot archive for this owner",
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "Random seed for the generated sales history",
						Value: 42,
					},
				},
				Action: runExportDemo,
			},
			{
				Name:  "drive-sync",
				Usage: "Archive workbook snapshots from a Google Drive folder",
				Flags: []cli.Flag{
					newOwnerFlag(),
					&cli.StringFlag{
						Name:  "folder",
						Usage: "Drive folder path; defaults to GOOGLE_DRIVE_FOLDER",
					},
				},
				Action: runDriveSync,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("seed failed")
	}
}

func runSchema(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(c.Context, postgres.Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Log.Info().Msg("schema created")
	return nil
}

func today(c *cli.Context) time.Time {
	if ts := c.Timestamp("today"); ts != nil {
		return *ts
	}
	return time.Now().UTC()
}
