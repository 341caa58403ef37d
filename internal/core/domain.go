// Package core holds the budget and expense model shared by the ledgers,
// reports and exporters: stored records, user inputs and patches, spend
// events and display formatting.
package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Weekly  Recurrence = "weekly"
	Monthly Recurrence = "monthly"
	Yearly  Recurrence = "yearly"
)

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
	Year  Granularity = "year"
)

type (
	// Recurrence is the reset cadence of a budget. The zero value means one-time.
	Recurrence string

	// Granularity selects the reporting window used by dashboards.
	Granularity string

	Budget struct {
		ID          string     `json:"id"`
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Amount      float64    `json:"amount"`
		Spent       float64    `json:"spent"`
		Recurrence  Recurrence `json:"recurrence,omitempty"`
		CreatedAt   time.Time  `json:"createdAt"`
		Period      string     `json:"period"` // watermark: Spent only covers this period
		IsActive    bool       `json:"isActive"`
	}

	Expense struct {
		ID             string      `json:"id"`
		Title          string      `json:"title"`
		Amount         float64     `json:"amount"`
		Icon           string      `json:"icon"`
		Count          int         `json:"count"`
		TotalAmount    float64     `json:"totalAmount"`
		CreatedAt      time.Time   `json:"createdAt"`
		LastPurchaseAt time.Time   `json:"lastPurchaseAt"`
		PurchaseDates  []time.Time `json:"purchaseDates"`
		IsArchived     bool        `json:"isArchived,omitempty"`
		BudgetID       string      `json:"budgetId,omitempty"`
		IsRecurring    *bool       `json:"isRecurring,omitempty"`

		// Embedded per-expense budget, tracked independently of BudgetID.
		BudgetAmount     *float64   `json:"budgetAmount,omitempty"`
		BudgetRecurrence Recurrence `json:"budgetRecurrence,omitempty"`
		BudgetPeriod     string     `json:"budgetPeriod,omitempty"`
		BudgetSpent      float64    `json:"budgetSpent,omitempty"`
	}

	// BudgetInput carries the user-supplied fields of a new budget.
	BudgetInput struct {
		Title       string
		Description string
		Amount      float64
		Recurrence  Recurrence
		IsActive    bool
	}

	// BudgetPatch lists the fields to merge into an existing budget. Nil fields are left alone;
	// a non-nil empty Recurrence turns the budget into a one-time budget.
	BudgetPatch struct {
		Title       *string
		Description *string
		Amount      *float64
		Spent       *float64
		Recurrence  *Recurrence
		Period      *string
		IsActive    *bool
	}

	// ExpenseInput carries the user-supplied fields of a new expense. Zero timestamps are
	// replaced with the ledger clock's current time.
	ExpenseInput struct {
		Title            string
		Amount           float64
		Icon             string
		CreatedAt        time.Time
		LastPurchaseAt   time.Time
		BudgetID         string
		IsRecurring      *bool
		BudgetAmount     *float64
		BudgetRecurrence Recurrence
	}
)

var (
	ErrEmptyTitle    = errors.New("empty title")
	ErrInvalidAmount = errors.New("invalid amount")
)

// IsValid reports whether r is one of the supported recurring cadences.
func (r Recurrence) IsValid() bool {
	switch r {
	case Weekly, Monthly, Yearly:
		return true
	default:
		return false
	}
}

// Granularities returns the supported reporting windows in display order.
func Granularities() []Granularity {
	return []Granularity{Day, Week, Month, Year}
}

// Recurring reports whether the expense supports recording further purchases.
// An unset flag counts as recurring.
func (e Expense) Recurring() bool {
	return e.IsRecurring == nil || *e.IsRecurring
}

// HasEmbeddedBudget reports whether the expense carries its own budget.
func (e Expense) HasEmbeddedBudget() bool {
	return e.BudgetAmount != nil && e.BudgetRecurrence != ""
}

// Apply merges the non-nil fields of p into b.
func (p BudgetPatch) Apply(b *Budget) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	if p.Spent != nil {
		b.Spent = *p.Spent
	}
	if p.Recurrence != nil {
		b.Recurrence = *p.Recurrence
	}
	if p.Period != nil {
		b.Period = *p.Period
	}
	if p.IsActive != nil {
		b.IsActive = *p.IsActive
	}
}

func (in BudgetInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrEmptyTitle
	}
	if in.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (in ExpenseInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrEmptyTitle
	}
	if in.Amount <= 0 {
		return ErrInvalidAmount
	}
	if in.BudgetAmount != nil && *in.BudgetAmount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
