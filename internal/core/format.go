package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// groupSeparator is the narrow no-break space used between thousands.
	groupSeparator = "\u202f"
	// symbolSeparator is the no-break space placed before the currency symbol.
	symbolSeparator = "\u00a0"
)

// FormatCurrency renders an amount as euros in French notation, rounded
// half-up to the cent.
//
// Examples:
//
//	FormatCurrency(15.5)   -> "15,50 €"
//	FormatCurrency(1000)   -> "1 000,00 €"
//	FormatCurrency(15.678) -> "15,68 €"
//	FormatCurrency(-10.5)  -> "-10,50 €"
func FormatCurrency(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	return sign + groupThousands(intPart) + "," + fracPart + symbolSeparator + "€"
}

// FormatDate renders t as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(groupSeparator)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
