package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"amlyspay/internal/core"
	"amlyspay/internal/report"
)

// Snapshot is everything the dashboard and budget screens show at one instant.
type Snapshot struct {
	GeneratedAt      time.Time
	RefreshedBudgets int
	Dashboard        report.Dashboard
	Budgets          report.BudgetSummary
	Expenses         report.ExpenseSummary
	Progress         map[string]report.BudgetProgress // by budget id, active budgets only
}

// Overview assembles snapshots from both ledgers.
type Overview struct {
	budgets  *BudgetLedger
	expenses *ExpenseLedger
	periods  *PeriodCalculator
}

func NewOverview(budgets *BudgetLedger, expenses *ExpenseLedger, periods *PeriodCalculator) *Overview {
	if periods == nil {
		periods = NewPeriodCalculator(nil)
	}
	return &Overview{budgets: budgets, expenses: expenses, periods: periods}
}

// Build reads both ledgers concurrently. Budgets are rolled over before they
// are read so the summary never shows a previous period's spend.
func (o *Overview) Build(ctx context.Context, g core.Granularity) (Snapshot, error) {
	var (
		refreshed int
		budgets   []core.Budget
		expenses  []core.Expense
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		refreshed = o.budgets.RefreshPeriods(ctx)
		budgets = o.budgets.All(ctx)
		return ctx.Err()
	})
	eg.Go(func() error {
		expenses = o.expenses.All(ctx)
		return ctx.Err()
	})
	if err := eg.Wait(); err != nil {
		return Snapshot{}, err
	}

	now := o.periods.Now()
	s := Snapshot{
		GeneratedAt:      now,
		RefreshedBudgets: refreshed,
		Dashboard:        report.BuildDashboard(expenses, g, now),
		Budgets:          report.SummarizeBudgets(budgets),
		Expenses:         report.SummarizeExpenses(expenses),
		Progress:         make(map[string]report.BudgetProgress),
	}
	for _, b := range budgets {
		if b.IsActive {
			s.Progress[b.ID] = report.BudgetProgressOf(b)
		}
	}
	return s, nil
}
