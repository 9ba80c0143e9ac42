package analytics

import (
	"math"
	"reflect"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

func testCategories() core.CategorySet {
	return core.NewCategorySet([]core.Category{
		{Name: "Groceries", MonthlyBudget: core.Money{Cents: 40000}},
		{Name: "Rent"},
		{Name: "Dining"},
		{Name: "Transport"},
		{Name: "Salary"},
	})
}

func tx(year, month, day int, desc string, cents int64, t core.TxType, cat string) core.Transaction {
	return core.Transaction{
		Date:        core.NewDate(year, month, day),
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Type:        t,
		Category:    cat,
	}
}

func mustSnapshot(t *testing.T, txs []core.Transaction) *ledger.Snapshot {
	t.Helper()
	snap, err := ledger.NewSnapshot(txs, testCategories())
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}
	return snap
}

func approx(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

// linearExpenseSeries builds one expense per month whose amounts follow
// amount = base + step*i in cents, starting at 2025-01.
func linearExpenseSeries(category string, months int, baseCents, stepCents int64) []core.Transaction {
	txs := make([]core.Transaction, 0, months)
	for i := 0; i < months; i++ {
		m := ledger.Month{Year: 2025, Month: 1}
		for j := 0; j < i; j++ {
			m = m.Next()
		}
		txs = append(txs, tx(m.Year, m.Month, 15, category, baseCents+stepCents*int64(i), core.Expense, category))
	}
	return txs
}

// Every analysis must yield identical results across repeated runs over the
// same snapshot, even where the implementation iterates maps.
func TestRepeatedRunsAreIdentical(t *testing.T) {
	txs := append(linearExpenseSeries("Groceries", 6, 10000, 500),
		linearExpenseSeries("Dining", 4, 6000, 300)...)
	txs = append(txs,
		tx(2025, 1, 27, "salary", 250000, core.Income, "Salary"),
		tx(2025, 6, 27, "salary", 250000, core.Income, "Salary"),
		tx(2025, 6, 1, "rent", 90000, core.Expense, "Rent"),
	)
	snap := mustSnapshot(t, txs)
	opts := DefaultOptions()

	for i := 0; i < 3; i++ {
		if got := Aggregate(snap, opts.WindowMonths); !reflect.DeepEqual(got, Aggregate(snap, opts.WindowMonths)) {
			t.Fatal("Aggregate() differs across runs")
		}
	}

	aggs := Aggregate(snap, opts.WindowMonths)
	for i := 0; i < 3; i++ {
		res1, fail1 := ProjectAll(aggs, core.Expense, opts.HorizonMonths)
		res2, fail2 := ProjectAll(aggs, core.Expense, opts.HorizonMonths)
		if !reflect.DeepEqual(res1, res2) || !reflect.DeepEqual(fail1, fail2) {
			t.Fatal("ProjectAll() differs across runs")
		}
	}

	for i := 0; i < 3; i++ {
		if got := Score(snap, opts); !reflect.DeepEqual(got, Score(snap, opts)) {
			t.Fatal("Score() differs across runs")
		}
	}

	for i := 0; i < 3; i++ {
		if got := GrowthRates(aggs, "Groceries", core.Expense); !reflect.DeepEqual(got, GrowthRates(aggs, "Groceries", core.Expense)) {
			t.Fatal("GrowthRates() differs across runs")
		}
	}
}
