package pipeline

import (
	"time"

	"github.com/ksr-21/smartstock/internal/domain"
)

// RunnerConfig holds configuration for a batch runner
type RunnerConfig struct {
	WorkerCount   int           // Number of owners processed concurrently
	HorizonDays   int           // Forecast horizon; zero uses the service default
	RetryAttempts int           // Total attempts per owner, at least one
	RetryBackoff  time.Duration // Wait between attempts
}

// DefaultRunnerConfig returns sensible defaults
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:   4,
		RetryAttempts: 2,
		RetryBackoff:  2 * time.Second,
	}
}

// RunStatus represents the current state of a batch run
type RunStatus string

const (
	StatusPending    RunStatus = "pending"
	StatusProcessing RunStatus = "processing"
	StatusCompleted  RunStatus = "completed"
	StatusFailed     RunStatus = "failed"
)

// Report is the outcome of one owner's refresh.
type Report struct {
	OwnerID    string                    `json:"owner_id"`
	Forecasts  []domain.ForecastResult   `json:"forecasts"`
	Anomalies  []domain.Anomaly          `json:"anomalies"`
	Assessment domain.ScenarioAssessment `json:"assessment"`
	Attempts   int                       `json:"attempts"`
	Duration   time.Duration             `json:"duration"`
	Err        error                     `json:"-"`
	Error      string                    `json:"error,omitempty"`
}

func failedReport(ownerID string, err error) Report {
	return Report{OwnerID: ownerID, Err: err, Error: err.Error()}
}

// Failed reports whether the owner could not be processed.
func (r Report) Failed() bool {
	return r.Err != nil
}

// BatchRun tracks a single execution of the runner across owners
type BatchRun struct {
	ID           int64
	Status       RunStatus
	TotalOwners  int
	FailedOwners int
	StartedAt    time.Time
	CompletedAt  *time.Time
	ErrorMessage string
}

// TickResult is the outcome of one scheduled refresh.
type TickResult struct {
	CompletedAt time.Time `json:"completed_at"`
	Reports     []Report  `json:"reports"`
	// OrderUpdates counts, per retailer, orders newly shipped or cancelled
	// since the previous tick.
	OrderUpdates map[string]int `json:"order_updates"`
}

// Report returns the report for ownerID, if the tick covered it.
func (t TickResult) Report(ownerID string) (Report, bool) {
	for _, r := range t.Reports {
		if r.OwnerID == ownerID {
			return r, true
		}
	}
	return Report{}, false
}
