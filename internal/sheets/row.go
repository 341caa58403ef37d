package sheets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"amlyspay/internal/core"
)

// SpendRow renders e in SpendColumns order.
func SpendRow(e core.SpendEvent) []any {
	return []any{
		core.FormatDate(e.OccurredAt),
		e.Title,
		decimal.NewFromFloat(e.Amount).Round(2).InexactFloat64(),
		e.BudgetID,
		string(e.Kind),
		e.ExpenseID,
	}
}

// YearPrefixedName returns "<year> <base>" unless base already starts with a
// 4-digit year.
func YearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
