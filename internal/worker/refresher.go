package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"amlyspay/internal/core"
	"amlyspay/internal/log"
	"amlyspay/internal/services"
)

type (
	// PeriodRefresher rolls stale periods over. Both ledgers satisfy it.
	PeriodRefresher interface {
		RefreshPeriods(ctx context.Context) int
	}

	// SnapshotBuilder is satisfied by services.Overview.
	SnapshotBuilder interface {
		Build(ctx context.Context, g core.Granularity) (services.Snapshot, error)
	}
)

// Refresher periodically rolls budget periods over and logs an overview.
type Refresher struct {
	budgets  PeriodRefresher
	expenses PeriodRefresher
	overview SnapshotBuilder
	interval time.Duration
	logger   *log.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewRefresher(budgets, expenses PeriodRefresher, overview SnapshotBuilder, interval time.Duration, logger *log.Logger) *Refresher {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Refresher{
		budgets:  budgets,
		expenses: expenses,
		overview: overview,
		interval: interval,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// Start runs one refresh immediately, then one per interval. Returns an error
// if already running.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("refresher is already running")
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	stopCh, doneCh := r.stopCh, r.doneCh
	r.mu.Unlock()

	go r.runLoop(ctx, stopCh, doneCh)

	r.logger.InfoContext(ctx, "Period refresher started", "interval", r.interval)
	return nil
}

// Stop signals the loop and waits for it to finish. The refresher counts as
// stopped once signalled, so Start may be called again even after a timeout;
// a refresh still in flight then finishes on its own.
func (r *Refresher) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	stopCh, doneCh := r.stopCh, r.doneCh
	r.running = false
	r.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		r.logger.InfoContext(ctx, "Period refresher stopped gracefully")
		return nil
	case <-ctx.Done():
		r.logger.WarnContext(ctx, "Period refresher stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the loop is active
func (r *Refresher) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Refresher) runLoop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.RunOnce(ctx)

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce refreshes both ledgers and logs the current month's overview.
func (r *Refresher) RunOnce(ctx context.Context) {
	budgets := r.budgets.RefreshPeriods(ctx)
	expenses := r.expenses.RefreshPeriods(ctx)
	r.logger.DebugContext(ctx, "Periods refreshed", "budgets", budgets, "expenses", expenses)

	if r.overview == nil {
		return
	}
	s, err := r.overview.Build(ctx, core.Month)
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to build overview", log.FieldError, err)
		return
	}
	r.logger.InfoContext(ctx, "Monthly overview",
		"spent", core.FormatCurrency(s.Dashboard.Total),
		"purchases", s.Dashboard.Purchases,
		"budgeted", core.FormatCurrency(s.Budgets.TotalBudget),
		"budget_spent", core.FormatCurrency(s.Budgets.TotalSpent),
		"active_budgets", s.Budgets.Active)
}
