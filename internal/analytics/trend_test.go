package analytics

import (
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

func TestAggregateConservesTotals(t *testing.T) {
	snap := mustSnapshot(t, []core.Transaction{
		tx(2025, 1, 5, "weekly shop", 4500, core.Expense, "Groceries"),
		tx(2025, 1, 20, "weekly shop", 5500, core.Expense, "Groceries"),
		tx(2025, 1, 27, "salary", 250000, core.Income, "Salary"),
		tx(2025, 2, 3, "rent", 90000, core.Expense, "Rent"),
	})

	aggs := Aggregate(snap, 12)

	var income, expense int64
	var count int
	for _, a := range aggs {
		income += a.Income.Cents
		expense += a.Expense.Cents
		count += a.Count
	}
	if income != 250000 {
		t.Errorf("total income = %d, want 250000", income)
	}
	if expense != 100000 {
		t.Errorf("total expense = %d, want 100000", expense)
	}
	if count != 4 {
		t.Errorf("total count = %d, want 4", count)
	}
}

func TestAggregateFillsSilentCells(t *testing.T) {
	// Groceries only in January, Rent only in March. February is silent.
	snap := mustSnapshot(t, []core.Transaction{
		tx(2025, 1, 5, "weekly shop", 4500, core.Expense, "Groceries"),
		tx(2025, 3, 1, "rent", 90000, core.Expense, "Rent"),
	})

	aggs := Aggregate(snap, 3)

	// 3 months x 2 categories.
	if len(aggs) != 6 {
		t.Fatalf("len(aggs) = %d, want 6", len(aggs))
	}
	wantMonths := []ledger.Month{
		{Year: 2025, Month: 1}, {Year: 2025, Month: 1},
		{Year: 2025, Month: 2}, {Year: 2025, Month: 2},
		{Year: 2025, Month: 3}, {Year: 2025, Month: 3},
	}
	wantCats := []string{"Groceries", "Rent", "Groceries", "Rent", "Groceries", "Rent"}
	for i, a := range aggs {
		if a.Month != wantMonths[i] || a.Category != wantCats[i] {
			t.Errorf("aggs[%d] = %v/%s, want %v/%s", i, a.Month, a.Category, wantMonths[i], wantCats[i])
		}
	}
	feb := aggs[2]
	if feb.Expense.Cents != 0 || feb.Income.Cents != 0 || feb.Count != 0 {
		t.Errorf("silent cell not zero: %+v", feb)
	}
}

func TestAggregateRespectsWindow(t *testing.T) {
	snap := mustSnapshot(t, []core.Transaction{
		tx(2023, 5, 1, "old rent", 80000, core.Expense, "Rent"),
		tx(2025, 2, 1, "rent", 90000, core.Expense, "Rent"),
	})

	aggs := Aggregate(snap, 12)
	for _, a := range aggs {
		if a.Month.Year == 2023 {
			t.Fatalf("aggregate outside the 12-month window: %v", a.Month)
		}
	}
	var total int64
	for _, a := range aggs {
		total += a.Expense.Cents
	}
	if total != 90000 {
		t.Errorf("windowed expense total = %d, want 90000", total)
	}
}

func TestAggregateEmptySnapshot(t *testing.T) {
	snap := mustSnapshot(t, nil)
	if got := Aggregate(snap, 12); got != nil {
		t.Errorf("Aggregate(empty) = %v, want nil", got)
	}
}

func TestGrowthRates(t *testing.T) {
	// Expense series 100.00, 150.00, 0.00, 80.00 for Dining.
	snap := mustSnapshot(t, []core.Transaction{
		tx(2025, 1, 10, "dinner", 10000, core.Expense, "Dining"),
		tx(2025, 2, 10, "dinner", 15000, core.Expense, "Dining"),
		tx(2025, 4, 10, "dinner", 8000, core.Expense, "Dining"),
	})
	aggs := Aggregate(snap, 4)

	rates := GrowthRates(aggs, "Dining", core.Expense)
	if len(rates) != 4 {
		t.Fatalf("len(rates) = %d, want 4", len(rates))
	}

	// Jan: first period, no prior baseline.
	if rates[0].HasBaseline {
		t.Errorf("rates[0].HasBaseline = true, want marker for the first period")
	}
	if rates[0].Percent != 0 {
		t.Errorf("rates[0].Percent = %v, want 0 when undefined", rates[0].Percent)
	}
	if (rates[0].Month != ledger.Month{Year: 2025, Month: 1}) {
		t.Errorf("rates[0].Month = %v, want 2025-01", rates[0].Month)
	}
	// Jan -> Feb: +50%.
	if !rates[1].HasBaseline || !approx(rates[1].Percent, 50, 1e-9) {
		t.Errorf("rates[1] = %+v, want +50%% with baseline", rates[1])
	}
	// Feb -> Mar: -100%.
	if !rates[2].HasBaseline || !approx(rates[2].Percent, -100, 1e-9) {
		t.Errorf("rates[2] = %+v, want -100%% with baseline", rates[2])
	}
	// Mar -> Apr: zero baseline, undefined growth.
	if rates[3].HasBaseline {
		t.Errorf("rates[3].HasBaseline = true, want false for zero baseline")
	}
	if rates[3].Percent != 0 {
		t.Errorf("rates[3].Percent = %v, want 0 when undefined", rates[3].Percent)
	}
}

func TestGrowthRatesSingleMonth(t *testing.T) {
	snap := mustSnapshot(t, []core.Transaction{
		tx(2025, 1, 10, "dinner", 10000, core.Expense, "Dining"),
	})
	aggs := Aggregate(snap, 12)

	rates := GrowthRates(aggs, "Dining", core.Expense)
	if len(rates) != 1 {
		t.Fatalf("len(rates) = %d, want the lone no-baseline entry", len(rates))
	}
	if rates[0].HasBaseline || rates[0].Percent != 0 {
		t.Errorf("rates[0] = %+v, want no-baseline marker", rates[0])
	}
}

func TestGrowthRatesUnknownCategory(t *testing.T) {
	snap := mustSnapshot(t, []core.Transaction{
		tx(2025, 1, 10, "dinner", 10000, core.Expense, "Dining"),
	})
	aggs := Aggregate(snap, 3)
	if got := GrowthRates(aggs, "Transport", core.Expense); got != nil {
		t.Errorf("GrowthRates(unknown) = %v, want nil", got)
	}
}
