package services

import (
	"context"
	"testing"
	"time"

	"amlyspay/internal/core"
)

func TestOverview_Build(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	periods, _ := fixedPeriods(aug15)
	budgets := NewBudgetLedger(store, periods, quietLogger())
	expenses := NewExpenseLedger(store, periods, budgets, quietLogger())

	budgets.Save(ctx, []core.Budget{
		{ID: "groceries", Amount: 300, Spent: 290, Recurrence: core.Monthly, Period: "2024-07", IsActive: true},
		{ID: "trip", Amount: 1000, Spent: 900, Period: "2024-06-01", IsActive: true},
		{ID: "paused", Amount: 50, Spent: 10, IsActive: false},
	})
	old := time.Date(2024, 8, 14, 9, 0, 0, 0, time.UTC)
	expenses.Save(ctx, []core.Expense{
		{ID: "bread", Title: "Pain", Amount: 1.5, Count: 2, TotalAmount: 3, PurchaseDates: []time.Time{old, aug15}},
		{ID: "tv", Title: "Télé", Amount: 400, Count: 1, TotalAmount: 400, IsArchived: true,
			PurchaseDates: []time.Time{time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}},
	})

	s, err := NewOverview(budgets, expenses, periods).Build(ctx, core.Week)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if s.RefreshedBudgets != 1 {
		t.Errorf("RefreshedBudgets = %d, want 1", s.RefreshedBudgets)
	}
	if s.Budgets.TotalSpent != 900 || s.Budgets.TotalBudget != 1300 || s.Budgets.Inactive != 1 {
		t.Errorf("Budgets = %+v, want the stale month already zeroed", s.Budgets)
	}
	if p := s.Progress["trip"]; p.Status != "warning" {
		t.Errorf("trip progress = %+v, want warning", p)
	}
	if _, ok := s.Progress["paused"]; ok {
		t.Error("Progress includes an inactive budget")
	}
	if s.Dashboard.Total != 3 || s.Dashboard.Purchases != 2 {
		t.Errorf("Dashboard total=%v purchases=%d, want 3 and 2", s.Dashboard.Total, s.Dashboard.Purchases)
	}
	if s.Expenses.Total != 403 || s.Expenses.Top == nil || s.Expenses.Top.ID != "tv" {
		t.Errorf("Expenses = %+v, want archived tv counted", s.Expenses)
	}
	if !s.GeneratedAt.Equal(aug15) {
		t.Errorf("GeneratedAt = %v, want %v", s.GeneratedAt, aug15)
	}
}

func TestOverview_BuildCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := newRecordingStore()
	budgets := NewBudgetLedger(store, nil, quietLogger())
	expenses := NewExpenseLedger(store, nil, budgets, quietLogger())

	if _, err := NewOverview(budgets, expenses, nil).Build(ctx, core.Month); err == nil {
		t.Error("Build() with a canceled context returned no error")
	}
}
