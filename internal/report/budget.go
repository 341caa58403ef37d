package report

import (
	"math"

	"amlyspay/internal/core"
)

// Status classifies how much of a budget has been used.
type Status string

const (
	StatusOK       Status = "ok"
	StatusWarning  Status = "warning"
	StatusExceeded Status = "exceeded"
)

// warningThreshold is the percentage at which a budget turns to warning.
const warningThreshold = 80

// BudgetProgress is the display state of one budget.
type BudgetProgress struct {
	Percentage float64 // capped at 100
	Remaining  float64 // never negative
	Overrun    float64
	OverBudget bool
	Status     Status
}

// Progress computes how far spent has eaten into amount. A zero amount
// reports 0%.
func Progress(amount, spent float64) BudgetProgress {
	var pct float64
	if amount > 0 {
		pct = math.Min(spent/amount*100, 100)
	}

	p := BudgetProgress{
		Percentage: pct,
		Remaining:  math.Max(amount-spent, 0),
		Overrun:    math.Max(spent-amount, 0),
		OverBudget: spent > amount,
		Status:     StatusOK,
	}
	switch {
	case pct >= 100:
		p.Status = StatusExceeded
	case pct >= warningThreshold:
		p.Status = StatusWarning
	}
	return p
}

// BudgetProgressOf is Progress for a shared budget.
func BudgetProgressOf(b core.Budget) BudgetProgress {
	return Progress(b.Amount, b.Spent)
}

// EmbeddedProgress is Progress for an expense's own budget. ok is false when
// the expense has none.
func EmbeddedProgress(e core.Expense) (p BudgetProgress, ok bool) {
	if !e.HasEmbeddedBudget() {
		return BudgetProgress{}, false
	}
	return Progress(*e.BudgetAmount, e.BudgetSpent), true
}

// BudgetSummary aggregates the active budgets.
type BudgetSummary struct {
	TotalBudget float64
	TotalSpent  float64
	Percentage  float64 // TotalSpent over TotalBudget, uncapped
	Active      int
	Inactive    int
}

// SummarizeBudgets totals amount and spent over active budgets only.
func SummarizeBudgets(budgets []core.Budget) BudgetSummary {
	var s BudgetSummary
	for _, b := range budgets {
		if !b.IsActive {
			s.Inactive++
			continue
		}
		s.Active++
		s.TotalBudget += b.Amount
		s.TotalSpent += b.Spent
	}
	if s.TotalBudget > 0 {
		s.Percentage = s.TotalSpent / s.TotalBudget * 100
	}
	return s
}

// ExpenseSummary aggregates lifetime spending.
type ExpenseSummary struct {
	Total float64
	Count int
	Top   *core.Expense // highest TotalAmount, first one wins ties
}

// SummarizeExpenses totals every expense, archived ones included.
func SummarizeExpenses(expenses []core.Expense) ExpenseSummary {
	s := ExpenseSummary{Count: len(expenses)}
	for i := range expenses {
		s.Total += expenses[i].TotalAmount
		if s.Top == nil || expenses[i].TotalAmount > s.Top.TotalAmount {
			top := expenses[i]
			s.Top = &top
		}
	}
	return s
}
