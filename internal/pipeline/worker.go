package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/forecast"
	"github.com/ksr-21/smartstock/internal/service"
)

// Runner refreshes forecasts and anomalies for many owners with a bounded
// worker pool.
type Runner struct {
	forecasts *service.ForecastService
	anomalies *service.AnomalyService
	recorder  RunRecorder
	config    RunnerConfig
	now       func() time.Time
}

// NewRunner creates a runner. recorder may be nil.
func NewRunner(forecasts *service.ForecastService, anomalies *service.AnomalyService, recorder RunRecorder, config RunnerConfig) *Runner {
	return &Runner{
		forecasts: forecasts,
		anomalies: anomalies,
		recorder:  recorder,
		config:    config,
		now:       time.Now,
	}
}

type ownerJob struct {
	index   int
	ownerID string
}

// Run processes every owner and returns one report per owner in input order.
// A failing owner never stops the others. The returned error is non-nil only
// when ctx is cancelled before all owners were queued.
func (r *Runner) Run(ctx context.Context, owners []string) ([]Report, error) {
	reports := make([]Report, len(owners))
	if len(owners) == 0 {
		return reports, nil
	}

	run := r.startRun(ctx, len(owners))

	workerCount := r.config.WorkerCount
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(owners) {
		workerCount = len(owners)
	}

	jobChan := make(chan ownerJob, len(owners))
	var wg sync.WaitGroup

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobChan {
				report := r.processOwner(ctx, job.ownerID)
				if report.Failed() {
					log.Warn().
						Err(report.Err).
						Int("worker", workerID).
						Str("owner_id", job.ownerID).
						Int("attempts", report.Attempts).
						Msg("owner refresh failed")
				}
				reports[job.index] = report
			}
		}(i)
	}

	var enqueueErr error
enqueue:
	for i, owner := range owners {
		select {
		case <-ctx.Done():
			enqueueErr = ctx.Err()
			break enqueue
		case jobChan <- ownerJob{index: i, ownerID: owner}:
		}
	}
	close(jobChan)
	wg.Wait()

	if enqueueErr != nil {
		for i := range reports {
			if reports[i].OwnerID == "" {
				reports[i] = failedReport(owners[i], enqueueErr)
			}
		}
	}

	r.finishRun(ctx, run, reports)
	return reports, enqueueErr
}

// processOwner runs one owner with retries.
func (r *Runner) processOwner(ctx context.Context, ownerID string) Report {
	start := time.Now()
	attempts := max(1, r.config.RetryAttempts)

	var (
		report Report
		err    error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		report, err = r.refresh(ctx, ownerID)
		report.Attempts = attempt
		if err == nil || attempt == attempts || ctx.Err() != nil {
			break
		}

		log.Debug().
			Err(err).
			Str("owner_id", ownerID).
			Msgf("retrying owner refresh (attempt %d/%d)", attempt, attempts)

		select {
		case <-ctx.Done():
		case <-time.After(r.config.RetryBackoff):
		}
	}

	report.OwnerID = ownerID
	report.Err = err
	if err != nil {
		report.Error = err.Error()
	}
	report.Duration = time.Since(start)
	return report
}

func (r *Runner) refresh(ctx context.Context, ownerID string) (Report, error) {
	snap, err := r.forecasts.Snapshot(ctx, ownerID)
	if err != nil {
		return Report{}, fmt.Errorf("load snapshot: %w", err)
	}

	horizon := r.config.HorizonDays
	if horizon <= 0 {
		horizon = r.forecasts.DefaultHorizon()
	}

	sim := domain.DefaultSimulation()
	results := forecast.ForecastAll(snap.Products, snap.Sales, horizon, sim)

	feed, err := r.anomalies.FeedFor(ctx, ownerID, domain.RoleRetailer, snap, r.now())
	if err != nil {
		return Report{}, fmt.Errorf("detect anomalies: %w", err)
	}

	return Report{
		Forecasts:  results,
		Anomalies:  feed,
		Assessment: forecast.AssessScenario(snap.Products, results, sim),
	}, nil
}

func (r *Runner) startRun(ctx context.Context, owners int) *BatchRun {
	run := &BatchRun{
		Status:      StatusProcessing,
		TotalOwners: owners,
		StartedAt:   r.now(),
	}
	if r.recorder == nil {
		return run
	}
	if err := r.recorder.CreateRun(ctx, run); err != nil {
		log.Warn().Err(err).Msg("failed to record batch run start")
	}
	return run
}

func (r *Runner) finishRun(ctx context.Context, run *BatchRun, reports []Report) {
	var errs []string
	for _, rep := range reports {
		if rep.Failed() {
			run.FailedOwners++
			errs = append(errs, rep.OwnerID+": "+rep.Err.Error())
		}
	}

	run.Status = StatusCompleted
	if run.FailedOwners > 0 {
		run.Status = StatusFailed
		run.ErrorMessage = strings.Join(errs, "; ")
	}
	completed := r.now()
	run.CompletedAt = &completed

	log.Info().
		Int("owners", run.TotalOwners).
		Int("failed", run.FailedOwners).
		Dur("elapsed", completed.Sub(run.StartedAt)).
		Msg("batch refresh finished")

	if r.recorder == nil || run.ID == 0 {
		return
	}
	// The run is recorded even when the batch context was cancelled.
	if err := r.recorder.UpdateRun(context.WithoutCancel(ctx), run); err != nil {
		log.Warn().Err(err).Int64("run_id", run.ID).Msg("failed to record batch run result")
	}
}
