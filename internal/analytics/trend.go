package analytics

import (
	"sort"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// MonthlyAggregate holds the per-category totals of one calendar month.
type MonthlyAggregate struct {
	Month    ledger.Month
	Category string
	Income   core.Money
	Expense  core.Money
	Count    int
}

// Aggregate computes per-category monthly totals over the trailing window.
// The result covers the full month-by-category grid: a month with no
// transactions for a category still yields a zero-total row, so downstream
// consumers always see a contiguous, gap-free monthly index. Rows are
// ordered chronologically, categories alphabetically within each month.
// An empty snapshot yields nil.
func Aggregate(snap *ledger.Snapshot, windowMonths int) []MonthlyAggregate {
	if snap == nil || snap.Empty() {
		return nil
	}
	if windowMonths <= 0 {
		windowMonths = DefaultWindowMonths
	}

	txs := snap.InWindow(windowMonths)
	if len(txs) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	type key struct {
		month    ledger.Month
		category string
	}
	totals := make(map[key]*MonthlyAggregate)
	for _, tx := range txs {
		seen[tx.Category] = true
		k := key{month: ledger.MonthOf(tx.Date), category: tx.Category}
		agg, ok := totals[k]
		if !ok {
			agg = &MonthlyAggregate{Month: k.month, Category: k.category}
			totals[k] = agg
		}
		switch tx.Type {
		case core.Income:
			agg.Income.Cents += tx.Amount.Cents
		case core.Expense:
			agg.Expense.Cents += tx.Amount.Cents
		}
		agg.Count++
	}

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	from, to, _ := snap.Window(windowMonths)
	months := ledger.Range(from, to)

	out := make([]MonthlyAggregate, 0, len(months)*len(categories))
	for _, m := range months {
		for _, c := range categories {
			if agg, ok := totals[key{month: m, category: c}]; ok {
				out = append(out, *agg)
				continue
			}
			out = append(out, MonthlyAggregate{Month: m, Category: c})
		}
	}
	return out
}

// GrowthRate is the month-over-month change of one category measure.
// HasBaseline is false when the previous month's total is zero, in which
// case a percentage change is undefined and Percent stays 0.
type GrowthRate struct {
	Month       ledger.Month
	Percent     float64
	HasBaseline bool
}

// GrowthRates derives month-over-month percentage changes for one category
// from an aggregate grid, for the given measure. Every month of the series
// is represented: the first month has no predecessor and carries the
// HasBaseline=false marker rather than being dropped. An unknown category
// yields nil.
func GrowthRates(aggs []MonthlyAggregate, category string, measure core.TxType) []GrowthRate {
	type point struct {
		month ledger.Month
		cents int64
	}
	var series []point
	for _, a := range aggs {
		if a.Category != category {
			continue
		}
		series = append(series, point{month: a.Month, cents: a.measure(measure)})
	}
	if len(series) == 0 {
		return nil
	}

	out := make([]GrowthRate, 0, len(series))
	out = append(out, GrowthRate{Month: series[0].month})
	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1], series[i]
		r := GrowthRate{Month: cur.month}
		if prev.cents != 0 {
			r.HasBaseline = true
			r.Percent = float64(cur.cents-prev.cents) / float64(prev.cents) * 100
		}
		out = append(out, r)
	}
	return out
}

// measure selects the income or expense total of an aggregate row.
func (a MonthlyAggregate) measure(t core.TxType) int64 {
	if t == core.Income {
		return a.Income.Cents
	}
	return a.Expense.Cents
}
