package analytics

import (
	"math"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// ScoreBreakdown is the composite health score with its three factors.
// Each factor is reported both as a raw ratio in [0,1] and as the weighted
// points it contributes. Total is the rounded sum, 0..100.
type ScoreBreakdown struct {
	Month ledger.Month

	SavingsRate     float64
	Diversification float64
	Consistency     float64

	SavingsPoints         float64
	DiversificationPoints float64
	ConsistencyPoints     float64

	Total int
}

// Score rates the latest month of the snapshot on three factors.
//
// Savings measures how much of the month's income was not spent, clamped
// to [0,1]; a month with no income scores 0. Diversification rewards
// spreading expenses across categories, computed as one minus the
// normalized Herfindahl index of the month's expense shares; with fewer
// than two spending categories there is nothing to spread and the factor
// is 0. Consistency rewards stable month-to-month spending over the
// trailing window via 1/(1+CV), where CV is the coefficient of variation
// of monthly expense totals; with fewer than two observed months the
// factor sits at the neutral 0.5.
//
// An empty snapshot scores zero across the board.
func Score(snap *ledger.Snapshot, opts Options) ScoreBreakdown {
	opts = opts.withDefaults()

	var b ScoreBreakdown
	if snap == nil || snap.Empty() {
		return b
	}
	latest, _ := snap.LatestMonth()
	b.Month = latest

	var income, expense int64
	expenseByCategory := make(map[string]int64)
	for _, tx := range snap.ForMonth(latest) {
		switch tx.Type {
		case core.Income:
			income += tx.Amount.Cents
		case core.Expense:
			expense += tx.Amount.Cents
			expenseByCategory[tx.Category] += tx.Amount.Cents
		}
	}

	if income > 0 {
		b.SavingsRate = clamp01(float64(income-expense) / float64(income))
	}

	b.Diversification = diversification(expenseByCategory, expense)
	b.Consistency = consistency(snap, opts.WindowMonths)

	b.SavingsPoints = b.SavingsRate * opts.Weights.Savings
	b.DiversificationPoints = b.Diversification * opts.Weights.Diversification
	b.ConsistencyPoints = b.Consistency * opts.Weights.Consistency

	total := math.Round(b.SavingsPoints + b.DiversificationPoints + b.ConsistencyPoints)
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	b.Total = int(total)
	return b
}

// diversification is one minus the normalized Herfindahl index of the
// expense shares: 0 when everything lands in one category, approaching 1
// as spending spreads evenly over many.
func diversification(byCategory map[string]int64, total int64) float64 {
	if total <= 0 {
		return 0
	}
	n := 0
	var herfindahl float64
	for _, cents := range byCategory {
		if cents <= 0 {
			continue
		}
		n++
		share := float64(cents) / float64(total)
		herfindahl += share * share
	}
	if n < 2 {
		return 0
	}
	minH := 1 / float64(n)
	normalized := (herfindahl - minH) / (1 - minH)
	return clamp01(1 - normalized)
}

// consistency scores the stability of monthly expense totals over the
// trailing window. Silent months count as zero-spend months.
func consistency(snap *ledger.Snapshot, windowMonths int) float64 {
	aggs := Aggregate(snap, windowMonths)
	idx := months(aggs)
	if len(idx) < 2 {
		return 0.5
	}

	totals := make(map[ledger.Month]float64, len(idx))
	for _, a := range aggs {
		totals[a.Month] += a.Expense.Units()
	}
	series := make([]float64, 0, len(idx))
	for _, m := range idx {
		series = append(series, totals[m])
	}

	m := mean(series)
	if m == 0 {
		return 0.5
	}
	cv := sampleStdDev(series) / m
	return clamp01(1 / (1 + cv))
}
