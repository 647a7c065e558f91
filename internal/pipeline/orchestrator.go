package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/notify"
	"github.com/ksr-21/smartstock/internal/repository"
)

// Scheduler runs the batch refresh on a cron schedule and tracks supply
// order updates between runs.
type Scheduler struct {
	runner *Runner
	orders repository.OrderRepository
	owners []string
	cron   *cron.Cron

	// tickMu serialises ticks and guards lastSeen.
	tickMu   sync.Mutex
	lastSeen map[string][]domain.SupplyOrder

	mu     sync.RWMutex
	latest *TickResult
}

// NewScheduler creates a scheduler for owners. orders may be nil, in which
// case order updates are not tracked.
func NewScheduler(runner *Runner, orders repository.OrderRepository, owners []string) *Scheduler {
	return &Scheduler{
		runner:   runner,
		orders:   orders,
		owners:   owners,
		cron:     cron.New(),
		lastSeen: make(map[string][]domain.SupplyOrder),
	}
}

// Start registers the refresh under spec (standard five-field cron syntax)
// and starts the cron loop.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		result := s.Tick(context.Background())
		log.Info().
			Int("owners", len(result.Reports)).
			Int("owners_with_updates", len(result.OrderUpdates)).
			Msg("scheduled batch refresh finished")
	})
	if err != nil {
		return fmt.Errorf("invalid batch schedule %q: %w", spec, err)
	}

	s.cron.Start()
	log.Info().Str("schedule", spec).Int("owners", len(s.owners)).Msg("batch scheduler started")
	return nil
}

// Stop stops the cron loop; the returned context is done once a running
// refresh has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Tick runs one refresh for every owner, counts the orders newly shipped or
// cancelled per owner since the previous tick, and keeps the result for
// Latest.
func (s *Scheduler) Tick(ctx context.Context) TickResult {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	reports, err := s.runner.Run(ctx, s.owners)
	if err != nil {
		log.Warn().Err(err).Msg("batch refresh interrupted")
	}

	result := TickResult{
		CompletedAt:  s.runner.now(),
		Reports:      reports,
		OrderUpdates: s.orderUpdates(ctx),
	}

	s.mu.Lock()
	s.latest = &result
	s.mu.Unlock()

	return result
}

func (s *Scheduler) orderUpdates(ctx context.Context) map[string]int {
	updates := make(map[string]int, len(s.owners))
	if s.orders == nil {
		return updates
	}

	for _, owner := range s.owners {
		current, err := s.orders.ListRetailerOrders(ctx, owner)
		if err != nil {
			log.Warn().Err(err).Str("owner_id", owner).Msg("failed to load orders for update tracking")
			continue
		}

		previous, seen := s.lastSeen[owner]
		s.lastSeen[owner] = current
		if !seen {
			continue
		}

		if n := notify.CountNewUpdates(previous, current); n > 0 {
			updates[owner] = n
			log.Info().Str("owner_id", owner).Int("updates", n).Msg("new supply order updates")
		}
	}
	return updates
}

// Latest returns the most recent tick. It does not wait for a running one.
func (s *Scheduler) Latest() (TickResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return TickResult{}, false
	}
	return *s.latest, true
}
