package services

import (
	"context"
	"sync"

	"amlyspay/internal/core"
	"amlyspay/internal/kv"
	"amlyspay/internal/log"
)

// BudgetLedger owns the shared budget collection and its period rollover.
type BudgetLedger struct {
	mu      sync.Mutex
	budgets collection[core.Budget]
	periods *PeriodCalculator
	logger  *log.Logger
}

func NewBudgetLedger(store kv.Store, periods *PeriodCalculator, logger *log.Logger) *BudgetLedger {
	if periods == nil {
		periods = NewPeriodCalculator(nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithComponent(log.ComponentBudget)
	return &BudgetLedger{
		budgets: collection[core.Budget]{store: store, key: kv.BudgetsKey, logger: logger},
		periods: periods,
		logger:  logger,
	}
}

// Create appends a new budget whose spend starts at zero in the current period.
// Input is stored as given; BudgetInput.Validate is for callers collecting it.
func (l *BudgetLedger) Create(ctx context.Context, in core.BudgetInput) core.Budget {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := core.Budget{
		ID:          newID(),
		Title:       in.Title,
		Description: in.Description,
		Amount:      in.Amount,
		Recurrence:  in.Recurrence,
		CreatedAt:   l.periods.Now().UTC(),
		Period:      l.periods.Current(in.Recurrence),
		IsActive:    in.IsActive,
	}
	budgets := append(l.budgets.loadForUpdate(ctx), b)
	l.budgets.save(ctx, budgets)

	l.logger.InfoContext(ctx, "Budget created",
		log.NewFields().WithOperation(log.OpCreate).WithBudget(b.ID, b.Amount, b.Period).ToSlice()...)
	return b
}

// Update merges patch into the budget with the given id. It reports whether a
// budget matched; nothing is written otherwise.
func (l *BudgetLedger) Update(ctx context.Context, id string, patch core.BudgetPatch) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	budgets := l.budgets.loadForUpdate(ctx)
	i := indexBudget(budgets, id)
	if i < 0 {
		return false
	}
	patch.Apply(&budgets[i])
	l.budgets.save(ctx, budgets)
	return true
}

// SetActive toggles whether the budget is shown among active budgets.
func (l *BudgetLedger) SetActive(ctx context.Context, id string, active bool) bool {
	return l.Update(ctx, id, core.BudgetPatch{IsActive: &active})
}

// Delete removes the budget with the given id. The filtered collection is
// written even when nothing matched.
func (l *BudgetLedger) Delete(ctx context.Context, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	budgets := l.budgets.loadForUpdate(ctx)
	kept := budgets[:0]
	for _, b := range budgets {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	l.budgets.save(ctx, kept)
}

// ApplySpend credits amount to a budget. When the budget's period has rolled
// over, spent restarts at amount instead of accumulating. It reports whether a
// budget matched.
func (l *BudgetLedger) ApplySpend(ctx context.Context, id string, amount float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	budgets := l.budgets.loadForUpdate(ctx)
	i := indexBudget(budgets, id)
	if i < 0 {
		l.logger.DebugContext(ctx, "Spend for unknown budget ignored", log.FieldBudgetID, id)
		return false
	}

	b := &budgets[i]
	if period, rolled := l.periods.RolledOver(b.Period, b.Recurrence); rolled {
		b.Period = period
		b.Spent = amount
	} else {
		b.Spent += amount
	}
	l.budgets.save(ctx, budgets)

	l.logger.DebugContext(ctx, "Spend applied",
		log.NewFields().WithOperation(log.OpSpend).WithBudget(b.ID, b.Spent, b.Period).ToSlice()...)
	return true
}

// ListActive returns the active budgets in stored order.
func (l *BudgetLedger) ListActive(ctx context.Context) []core.Budget {
	l.mu.Lock()
	defer l.mu.Unlock()

	budgets := l.budgets.load(ctx)
	active := make([]core.Budget, 0, len(budgets))
	for _, b := range budgets {
		if b.IsActive {
			active = append(active, b)
		}
	}
	return active
}

// RefreshPeriods zeroes the spend of every recurring budget whose period is
// stale. The collection is written once, and only if something changed.
func (l *BudgetLedger) RefreshPeriods(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	budgets := l.budgets.loadForUpdate(ctx)
	changed := 0
	for i := range budgets {
		b := &budgets[i]
		if period, rolled := l.periods.RolledOver(b.Period, b.Recurrence); rolled {
			b.Period = period
			b.Spent = 0
			changed++
		}
	}
	if changed > 0 {
		l.budgets.save(ctx, budgets)
		l.logger.InfoContext(ctx, "Budget periods refreshed", log.FieldOperation, log.OpRefresh, log.FieldCount, changed)
	}
	return changed
}

// All returns the stored collection as is.
func (l *BudgetLedger) All(ctx context.Context) []core.Budget {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.budgets.load(ctx)
}

// Save replaces the stored collection.
func (l *BudgetLedger) Save(ctx context.Context, budgets []core.Budget) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.budgets.save(ctx, budgets)
}

func indexBudget(budgets []core.Budget, id string) int {
	for i := range budgets {
		if budgets[i].ID == id {
			return i
		}
	}
	return -1
}
