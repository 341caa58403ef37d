package sheets

import (
	"context"

	"amlyspay/internal/core"
)

// Ports for outbound adapters.
type (
	// SpendWriter appends one row per spend event to a spreadsheet.
	SpendWriter interface {
		AppendSpend(ctx context.Context, e core.SpendEvent) (rowRef string, err error)
	}
)

// Columns of an exported spend row, in order.
var SpendColumns = []string{"Date", "Title", "Amount", "Budget", "Kind", "Expense"}
