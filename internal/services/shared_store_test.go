package services

import (
	"context"
	"testing"
	"time"

	"amlyspay/internal/cache"
	"amlyspay/internal/core"
	"amlyspay/internal/kv/memory"
)

func TestBudgetLedger_RefreshSeesOtherWritersThroughCache(t *testing.T) {
	ctx := context.Background()
	shared := memory.New()

	appPeriods, appClock := fixedPeriods(aug15)
	workerPeriods, workerClock := fixedPeriods(aug15)
	app := NewBudgetLedger(shared, appPeriods, quietLogger())
	worker := NewBudgetLedger(cache.NewStore(shared, 4, time.Hour), workerPeriods, quietLogger())

	first := app.Create(ctx, core.BudgetInput{Title: "Courses", Amount: 300, Recurrence: core.Monthly, IsActive: true})
	if got := worker.All(ctx); len(got) != 1 {
		t.Fatalf("worker All() = %d budgets, want 1", len(got))
	}

	app.ApplySpend(ctx, first.ID, 40)
	app.Create(ctx, core.BudgetInput{Title: "Sorties", Amount: 100, Recurrence: core.Monthly, IsActive: true})

	sep := time.Date(2024, 9, 2, 9, 0, 0, 0, time.UTC)
	appClock.Set(sep)
	workerClock.Set(sep)
	if got := worker.RefreshPeriods(ctx); got != 2 {
		t.Errorf("RefreshPeriods() = %d, want 2", got)
	}

	stored := app.All(ctx)
	if len(stored) != 2 {
		t.Fatalf("shared store holds %d budgets, want 2", len(stored))
	}
	for _, b := range stored {
		if b.Period != "2024-09" || b.Spent != 0 {
			t.Errorf("budget %q period=%q spent=%v, want 2024-09 and 0", b.Title, b.Period, b.Spent)
		}
	}
}

func TestExpenseLedger_IncrementSeesOtherWritersThroughCache(t *testing.T) {
	ctx := context.Background()
	shared := memory.New()
	periods, _ := fixedPeriods(aug15)

	app := NewExpenseLedger(shared, periods, nil, quietLogger())
	worker := NewExpenseLedger(cache.NewStore(shared, 4, time.Hour), periods, nil, quietLogger())

	e := app.Create(ctx, core.ExpenseInput{Title: "Café", Amount: 2})
	worker.All(ctx)
	app.Increment(ctx, e.ID)

	got, ok := worker.Increment(ctx, e.ID)
	if !ok {
		t.Fatal("Increment() = false, want true")
	}
	if got.Count != 3 || got.TotalAmount != 6 {
		t.Errorf("Increment() count=%d total=%v, want 3 and 6", got.Count, got.TotalAmount)
	}
}
