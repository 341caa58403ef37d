package services

import (
	"context"
	"sync"
	"time"

	"amlyspay/internal/core"
	"amlyspay/internal/kv"
	"amlyspay/internal/log"
)

// SpendApplier credits a shared budget. BudgetLedger satisfies it.
type SpendApplier interface {
	ApplySpend(ctx context.Context, id string, amount float64) bool
}

// SpendPublisher is notified after every recorded purchase.
type SpendPublisher interface {
	PublishSpend(ctx context.Context, event core.SpendEvent) error
}

// ExpenseLedger owns the expense collection, including each expense's
// embedded budget.
type ExpenseLedger struct {
	mu        sync.Mutex
	expenses  collection[core.Expense]
	periods   *PeriodCalculator
	budgets   SpendApplier
	publisher SpendPublisher
	logger    *log.Logger
}

// NewExpenseLedger creates a ledger persisting into store. budgets may be nil
// when no shared budgets are tracked.
func NewExpenseLedger(store kv.Store, periods *PeriodCalculator, budgets SpendApplier, logger *log.Logger) *ExpenseLedger {
	if periods == nil {
		periods = NewPeriodCalculator(nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithComponent(log.ComponentExpense)
	return &ExpenseLedger{
		expenses: collection[core.Expense]{store: store, key: kv.ExpensesKey, logger: logger},
		periods:  periods,
		budgets:  budgets,
		logger:   logger,
	}
}

// SetPublisher registers p to receive spend events. A nil p disables publishing.
func (l *ExpenseLedger) SetPublisher(p SpendPublisher) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.publisher = p
}

// Create records the first purchase of a new expense. A linked shared budget
// is credited after the expense is stored; the two writes are independent.
// Input is stored as given; ExpenseInput.Validate is for callers collecting it.
func (l *ExpenseLedger) Create(ctx context.Context, in core.ExpenseInput) core.Expense {
	l.mu.Lock()
	createdAt := in.CreatedAt.UTC()
	if in.CreatedAt.IsZero() {
		createdAt = l.periods.Now().UTC()
	}
	lastPurchaseAt := in.LastPurchaseAt.UTC()
	if in.LastPurchaseAt.IsZero() {
		lastPurchaseAt = createdAt
	}

	e := core.Expense{
		ID:               newID(),
		Title:            in.Title,
		Amount:           in.Amount,
		Icon:             in.Icon,
		Count:            1,
		TotalAmount:      in.Amount,
		CreatedAt:        createdAt,
		LastPurchaseAt:   lastPurchaseAt,
		PurchaseDates:    []time.Time{createdAt},
		BudgetID:         in.BudgetID,
		IsRecurring:      in.IsRecurring,
		BudgetAmount:     in.BudgetAmount,
		BudgetRecurrence: in.BudgetRecurrence,
	}
	if e.HasEmbeddedBudget() && e.Recurring() {
		e.BudgetPeriod = l.periods.Current(e.BudgetRecurrence)
		e.BudgetSpent = e.Amount
	}

	expenses := append(l.expenses.loadForUpdate(ctx), e)
	l.expenses.save(ctx, expenses)
	publisher := l.publisher
	l.mu.Unlock()

	l.logger.InfoContext(ctx, "Expense created",
		log.NewFields().WithOperation(log.OpCreate).WithExpense(e.ID, e.Amount, e.Count).ToSlice()...)
	l.afterSpend(ctx, e, core.SpendCreated, publisher)
	return e
}

// Increment records one more purchase of an existing expense at the current
// instant. It reports whether an expense matched.
func (l *ExpenseLedger) Increment(ctx context.Context, id string) (core.Expense, bool) {
	l.mu.Lock()
	expenses := l.expenses.loadForUpdate(ctx)
	i := indexExpense(expenses, id)
	if i < 0 {
		l.mu.Unlock()
		return core.Expense{}, false
	}

	now := l.periods.Now().UTC()
	e := &expenses[i]
	if e.HasEmbeddedBudget() {
		l.refreshEmbedded(e)
	}
	e.Count++
	e.TotalAmount += e.Amount
	e.LastPurchaseAt = now
	e.PurchaseDates = append(e.PurchaseDates, now)
	if e.HasEmbeddedBudget() {
		e.BudgetSpent += e.Amount
	}
	l.expenses.save(ctx, expenses)
	updated := *e
	publisher := l.publisher
	l.mu.Unlock()

	l.logger.DebugContext(ctx, "Expense incremented",
		log.NewFields().WithOperation(log.OpIncrement).WithExpense(updated.ID, updated.TotalAmount, updated.Count).ToSlice()...)
	l.afterSpend(ctx, updated, core.SpendIncremented, publisher)
	return updated, true
}

// Delete removes the expense with the given id. The filtered collection is
// written even when nothing matched.
func (l *ExpenseLedger) Delete(ctx context.Context, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	expenses := l.expenses.loadForUpdate(ctx)
	kept := expenses[:0]
	for _, e := range expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	l.expenses.save(ctx, kept)
}

// Archive hides an expense from active lists while keeping it in totals.
func (l *ExpenseLedger) Archive(ctx context.Context, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	expenses := l.expenses.loadForUpdate(ctx)
	i := indexExpense(expenses, id)
	if i < 0 {
		return false
	}
	expenses[i].IsArchived = true
	l.expenses.save(ctx, expenses)
	l.logger.InfoContext(ctx, "Expense archived", log.FieldOperation, log.OpArchive, log.FieldExpenseID, id)
	return true
}

// ListActive rolls over stale embedded budgets, then returns the expenses that
// are not archived.
func (l *ExpenseLedger) ListActive(ctx context.Context) []core.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()

	expenses := l.expenses.loadForUpdate(ctx)
	if l.refreshAll(expenses) > 0 {
		l.expenses.save(ctx, expenses)
	}

	active := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if !e.IsArchived {
			active = append(active, e)
		}
	}
	return active
}

// RefreshPeriods zeroes every stale embedded budget and returns how many
// changed. The collection is written only if something changed.
func (l *ExpenseLedger) RefreshPeriods(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	expenses := l.expenses.loadForUpdate(ctx)
	changed := l.refreshAll(expenses)
	if changed > 0 {
		l.expenses.save(ctx, expenses)
		l.logger.InfoContext(ctx, "Embedded budget periods refreshed", log.FieldOperation, log.OpRefresh, log.FieldCount, changed)
	}
	return changed
}

// All returns the stored collection as is, archived expenses included.
func (l *ExpenseLedger) All(ctx context.Context) []core.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.expenses.load(ctx)
}

// Save replaces the stored collection.
func (l *ExpenseLedger) Save(ctx context.Context, expenses []core.Expense) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expenses.save(ctx, expenses)
}

func (l *ExpenseLedger) refreshAll(expenses []core.Expense) int {
	changed := 0
	for i := range expenses {
		if expenses[i].HasEmbeddedBudget() && l.refreshEmbedded(&expenses[i]) {
			changed++
		}
	}
	return changed
}

func (l *ExpenseLedger) refreshEmbedded(e *core.Expense) bool {
	period, rolled := l.periods.RolledOver(e.BudgetPeriod, e.BudgetRecurrence)
	if !rolled {
		return false
	}
	e.BudgetPeriod = period
	e.BudgetSpent = 0
	return true
}

// afterSpend runs outside the ledger lock.
func (l *ExpenseLedger) afterSpend(ctx context.Context, e core.Expense, kind core.SpendKind, publisher SpendPublisher) {
	if e.BudgetID != "" && l.budgets != nil {
		l.budgets.ApplySpend(ctx, e.BudgetID, e.Amount)
	}
	if publisher == nil {
		return
	}
	if err := publisher.PublishSpend(ctx, core.NewSpendEvent(e, kind)); err != nil {
		l.logger.WarnContext(ctx, "Failed to publish spend event",
			log.NewFields().WithOperation(log.OpPublish).WithExpense(e.ID, e.Amount, e.Count).WithError(err).ToSlice()...)
	}
}

func indexExpense(expenses []core.Expense, id string) int {
	for i := range expenses {
		if expenses[i].ID == id {
			return i
		}
	}
	return -1
}
