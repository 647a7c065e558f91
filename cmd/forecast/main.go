package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/ksr-21/smartstock/internal/anomaly"
	"github.com/ksr-21/smartstock/internal/config"
	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/forecast"
	"github.com/ksr-21/smartstock/internal/pipeline"
	"github.com/ksr-21/smartstock/internal/repository/postgres"
	"github.com/ksr-21/smartstock/internal/service"
	"github.com/ksr-21/smartstock/internal/snapshot"
	"github.com/ksr-21/smartstock/internal/storage"
	"github.com/ksr-21/smartstock/pkg/logger"
)

// workbookReport is the JSON document printed by the workbook command.
type workbookReport struct {
	Scenario   string                    `json:"scenario"`
	Forecasts  []domain.ForecastResult   `json:"forecasts"`
	Assessment domain.ScenarioAssessment `json:"assessment"`
	Anomalies  []domain.Anomaly          `json:"anomalies"`
}

func main() {
	_ = godotenv.Load()
	// stdout carries JSON; logs go to stderr.
	logger.UseJSON(os.Stderr)

	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("forecast failed")
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:  "forecast",
		Usage: "Run inventory forecasts outside the API",
		Commands: []*cli.Command{
			{
				Name:  "workbook",
				Usage: "Forecast and detect anomalies from an XLSX snapshot",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "Workbook with products and sales sheets"},
					&cli.StringFlag{Name: "object", Usage: "Archive key of the workbook, read from STORAGE_* storage"},
					&cli.StringFlag{Name: "owner", Usage: "Use the owner's latest archived snapshot"},
					&cli.IntFlag{Name: "horizon", Usage: "Forecast horizon in days", Value: forecast.DefaultHorizonDays},
					&cli.Float64Flag{Name: "multiplier", Usage: "Global demand multiplier", Value: 1.0},
					&cli.IntFlag{Name: "delay", Usage: "Extra supplier lead time in days"},
					&cli.BoolFlag{Name: "promotion", Usage: "Apply the promotion uplift"},
					&cli.StringFlag{Name: "event", Usage: "Festival preset name"},
					&cli.TimestampFlag{Name: "date", Usage: "Detection date (YYYY-MM-DD)", Layout: domain.DateLayout},
				},
				Action: func(c *cli.Context) error {
					return runWorkbook(c, out)
				},
			},
			{
				Name:  "batch",
				Usage: "Refresh forecasts and anomalies for many owners from the database",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "owners", Usage: "Owner ids; defaults to BATCH_OWNERS"},
					&cli.IntFlag{Name: "workers", Usage: "Concurrent owners; defaults to BATCH_WORKERS"},
				},
				Action: func(c *cli.Context) error {
					return runBatch(c, out)
				},
			},
		},
	}
}

func scenarioFrom(c *cli.Context) (domain.SimulationParams, error) {
	sim := domain.DefaultSimulation()

	m := c.Float64("multiplier")
	if math.IsNaN(m) || m <= 0 || m > forecast.MaxDemandMultiplier {
		return sim, fmt.Errorf("multiplier must be in (0, %v], got %v", forecast.MaxDemandMultiplier, m)
	}
	sim.DemandMultiplier = m

	if d := c.Int("delay"); d >= 0 {
		sim.LeadTimeDelayDays = d
	} else {
		return sim, fmt.Errorf("delay must not be negative, got %d", d)
	}

	sim.IsPromotionActive = c.Bool("promotion")

	if name := c.String("event"); name != "" {
		event, ok := forecast.FindEvent(name)
		if !ok {
			return sim, fmt.Errorf("unknown event %q", name)
		}
		sim.ActiveEvent = event
	}

	return sim, nil
}

func runWorkbook(c *cli.Context, out io.Writer) error {
	sim, err := scenarioFrom(c)
	if err != nil {
		return err
	}

	wb, err := loadWorkbook(c)
	if err != nil {
		return err
	}

	products, err := wb.ListProducts(c.Context, "")
	if err != nil {
		return err
	}
	sales, err := wb.ListSales(c.Context, "")
	if err != nil {
		return err
	}

	day := time.Now().UTC()
	if ts := c.Timestamp("date"); ts != nil {
		day = *ts
	}

	results := forecast.ForecastAll(products, sales, c.Int("horizon"), sim)
	report := workbookReport{
		Scenario:   forecast.Describe(sim),
		Forecasts:  results,
		Assessment: forecast.AssessScenario(products, results, sim),
		Anomalies:  anomaly.Detect(products, sales, day),
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// loadWorkbook opens --file, or fetches --object or the owner's latest
// snapshot from the configured archive.
func loadWorkbook(c *cli.Context) (*snapshot.Workbook, error) {
	if file := c.String("file"); file != "" {
		return snapshot.Open(file)
	}

	key, owner := c.String("object"), c.String("owner")
	if key == "" && owner == "" {
		return nil, fmt.Errorf("one of --file, --object or --owner is required")
	}

	store, err := storage.New(config.Load().Storage)
	if err != nil {
		return nil, err
	}

	if key == "" {
		key, err = snapshot.LatestKey(c.Context, store, path.Join("snapshots", owner))
		if err != nil {
			return nil, err
		}
	}

	logger.Log.Info().Str("key", key).Msg("fetching archived snapshot")
	return snapshot.Fetch(c.Context, store, key)
}

func runBatch(c *cli.Context, out io.Writer) error {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.LogLevel)

	owners := c.StringSlice("owners")
	if len(owners) == 0 {
		owners = cfg.Batch.Owners
	}
	if len(owners) == 0 {
		return fmt.Errorf("no owners given; pass --owners or set BATCH_OWNERS")
	}

	workers := c.Int("workers")
	if workers <= 0 {
		workers = cfg.Batch.Workers
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	products := postgres.NewProductRepository(db)
	orders := postgres.NewOrderRepository(db)
	detector := anomaly.NewDetector(anomaly.Options{RequireHistory: cfg.Forecast.RequireHistory})

	runner := pipeline.NewRunner(
		service.NewForecastService(products, products, nil, cfg.Forecast.HorizonDays),
		service.NewAnomalyService(products, products, orders, detector),
		pipeline.NewRepository(db.DB.DB),
		pipeline.RunnerConfig{
			WorkerCount:   workers,
			RetryAttempts: cfg.Batch.RetryAttempts,
			RetryBackoff:  pipeline.DefaultRunnerConfig().RetryBackoff,
		},
	)

	reports, err := runner.Run(c.Context, owners)
	if err != nil {
		return err
	}

	type ownerResult struct {
		pipeline.Report
		Error string `json:"error,omitempty"`
	}
	results := make([]ownerResult, len(reports))
	failed := 0
	for i, rep := range reports {
		results[i] = ownerResult{Report: rep}
		if rep.Failed() {
			results[i].Error = rep.Err.Error()
			failed++
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d owners failed", failed, len(reports))
	}
	return nil
}
