package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"amlyspay/internal/core"
)

// Activity is one expense's purchases inside the dashboard window.
type Activity struct {
	Expense     core.Expense
	Dates       []time.Time
	PeriodTotal float64
	Share       float64 // percent of Dashboard.Total
}

// Purchases returns how many purchases fell inside the window.
func (a Activity) Purchases() int {
	return len(a.Dates)
}

// Dashboard summarizes spending over one reporting window.
type Dashboard struct {
	Granularity        core.Granularity
	Since              time.Time
	Total              float64
	Purchases          int
	AveragePerPurchase float64
	MostActive         *Activity
	Breakdown          []Activity // highest PeriodTotal first
	ByPeriod           map[string]int
}

// BuildDashboard computes window totals from the unfiltered expense collection.
// Archived expenses count like any other.
func BuildDashboard(expenses []core.Expense, g core.Granularity, now time.Time) Dashboard {
	d := Dashboard{
		Granularity: g,
		Since:       WindowStart(g, now),
		ByPeriod:    make(map[string]int),
	}

	total := decimal.Zero
	for _, e := range expenses {
		dates := FilterByRecency(e.PurchaseDates, g, now)
		if len(dates) == 0 {
			continue
		}
		periodTotal := decimal.NewFromFloat(e.Amount).Mul(decimal.NewFromInt(int64(len(dates))))
		total = total.Add(periodTotal)
		d.Purchases += len(dates)
		for key, n := range GroupByPeriodIn(dates, g, now.Location()) {
			d.ByPeriod[key] += n
		}
		d.Breakdown = append(d.Breakdown, Activity{
			Expense:     e,
			Dates:       dates,
			PeriodTotal: periodTotal.InexactFloat64(),
		})
	}
	d.Total = total.InexactFloat64()

	if d.Purchases > 0 {
		d.AveragePerPurchase = total.Div(decimal.NewFromInt(int64(d.Purchases))).InexactFloat64()
	}

	for i := range d.Breakdown {
		if d.Total > 0 {
			d.Breakdown[i].Share = d.Breakdown[i].PeriodTotal / d.Total * 100
		}
		if d.MostActive == nil || d.Breakdown[i].Purchases() > d.MostActive.Purchases() {
			most := d.Breakdown[i]
			d.MostActive = &most
		}
	}
	sort.SliceStable(d.Breakdown, func(i, j int) bool {
		return d.Breakdown[i].PeriodTotal > d.Breakdown[j].PeriodTotal
	})
	return d
}
