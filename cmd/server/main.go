package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ksr-21/smartstock/internal/anomaly"
	"github.com/ksr-21/smartstock/internal/api"
	"github.com/ksr-21/smartstock/internal/cache"
	"github.com/ksr-21/smartstock/internal/config"
	"github.com/ksr-21/smartstock/internal/explain"
	"github.com/ksr-21/smartstock/internal/pipeline"
	"github.com/ksr-21/smartstock/internal/repository/postgres"
	"github.com/ksr-21/smartstock/internal/service"
	"github.com/ksr-21/smartstock/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	explanations, err := cache.NewExplanationCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Explanation cache unavailable, continuing without it")
		explanations = cache.NewNoopExplanationCache()
	}
	defer explanations.Close()

	if !cfg.Explain.Enabled() {
		logger.Log.Info().Msg("No explanation endpoint configured, advisor text uses fallbacks")
	}
	explainer := explain.NewService(
		explain.NewGenerator(cfg.Explain),
		explain.NewBreaker(explain.DefaultBreakerConfig()),
		explanations,
	)

	products := postgres.NewProductRepository(db)
	orders := postgres.NewOrderRepository(db)
	profiles := postgres.NewProfileRepository(db)

	detector := anomaly.NewDetector(anomaly.Options{RequireHistory: cfg.Forecast.RequireHistory})
	forecasts := service.NewForecastService(products, products, explainer, cfg.Forecast.HorizonDays)
	anomalies := service.NewAnomalyService(products, products, orders, detector)

	var scheduler *pipeline.Scheduler
	if cfg.Batch.Schedule != "" && len(cfg.Batch.Owners) > 0 {
		runner := pipeline.NewRunner(forecasts, anomalies, pipeline.NewRepository(db.DB.DB), pipeline.RunnerConfig{
			WorkerCount:   cfg.Batch.Workers,
			RetryAttempts: cfg.Batch.RetryAttempts,
			RetryBackoff:  pipeline.DefaultRunnerConfig().RetryBackoff,
		})
		scheduler = pipeline.NewScheduler(runner, orders, cfg.Batch.Owners)
	}

	services := &api.Services{
		Forecasts: forecasts,
		Explain:   service.NewExplainService(forecasts, explainer),
		Anomalies: anomalies,
		Overview:  service.NewOverviewService(forecasts, anomalies),
		Orders:    service.NewOrderService(orders, profiles, forecasts),
		Inventory: service.NewInventoryService(products, products),
		Now:       time.Now,
	}
	if scheduler != nil {
		services.Batch = scheduler
	}
	router := api.NewRouter(services, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	if scheduler != nil {
		if err := scheduler.Start(cfg.Batch.Schedule); err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to start batch scheduler")
		}
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if scheduler != nil {
		select {
		case <-scheduler.Stop().Done():
		case <-ctx.Done():
			logger.Log.Warn().Msg("Batch refresh still running at shutdown")
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
