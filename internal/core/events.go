package core

import "time"

const (
	SpendCreated     SpendKind = "created"
	SpendIncremented SpendKind = "incremented"
)

type (
	// SpendKind tells whether a spend event came from a new expense or a repeat purchase.
	SpendKind string

	// SpendEvent describes one recorded purchase of an expense.
	SpendEvent struct {
		ExpenseID  string    `json:"expenseId"`
		BudgetID   string    `json:"budgetId,omitempty"`
		Title      string    `json:"title"`
		Amount     float64   `json:"amount"`
		Kind       SpendKind `json:"kind"`
		OccurredAt time.Time `json:"occurredAt"`
	}
)

// NewSpendEvent builds the event for the latest purchase of e.
func NewSpendEvent(e Expense, kind SpendKind) SpendEvent {
	return SpendEvent{
		ExpenseID:  e.ID,
		BudgetID:   e.BudgetID,
		Title:      e.Title,
		Amount:     e.Amount,
		Kind:       kind,
		OccurredAt: e.LastPurchaseAt,
	}
}
