package analytics

import (
	"testing"

	"fintrack/internal/core"
)

func TestScoreEmptySnapshot(t *testing.T) {
	b := Score(mustSnapshot(t, nil), DefaultOptions())
	if b.Total != 0 {
		t.Errorf("Total = %d, want 0 for an empty snapshot", b.Total)
	}
}

func TestScoreSavingsRate(t *testing.T) {
	tests := []struct {
		name        string
		incomeCents int64
		expenses    []int64
		want        float64
	}{
		{"half saved", 200000, []int64{100000}, 0.5},
		{"all saved", 200000, []int64{}, 1.0},
		{"overspent clamps to zero", 100000, []int64{150000}, 0},
		{"no income scores zero", 0, []int64{50000}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var txs []core.Transaction
			if tt.incomeCents > 0 {
				txs = append(txs, tx(2025, 3, 27, "salary", tt.incomeCents, core.Income, "Salary"))
			}
			for i, cents := range tt.expenses {
				txs = append(txs, tx(2025, 3, 1+i, "rent", cents, core.Expense, "Rent"))
			}
			b := Score(mustSnapshot(t, txs), DefaultOptions())
			if !approx(b.SavingsRate, tt.want, 1e-9) {
				t.Errorf("SavingsRate = %v, want %v", b.SavingsRate, tt.want)
			}
		})
	}
}

func TestScoreDiversification(t *testing.T) {
	concentrated := mustSnapshot(t, []core.Transaction{
		tx(2025, 3, 1, "rent", 90000, core.Expense, "Rent"),
	})
	spread := mustSnapshot(t, []core.Transaction{
		tx(2025, 3, 1, "rent", 30000, core.Expense, "Rent"),
		tx(2025, 3, 5, "shop", 30000, core.Expense, "Groceries"),
		tx(2025, 3, 10, "dinner", 30000, core.Expense, "Dining"),
	})

	bc := Score(concentrated, DefaultOptions())
	bs := Score(spread, DefaultOptions())

	if bc.Diversification != 0 {
		t.Errorf("single-category Diversification = %v, want 0", bc.Diversification)
	}
	// Perfectly even three-way split maximizes the factor.
	if !approx(bs.Diversification, 1, 1e-9) {
		t.Errorf("even-split Diversification = %v, want 1", bs.Diversification)
	}
	if bs.Diversification <= bc.Diversification {
		t.Error("spreading expenses did not raise diversification")
	}
}

func TestScoreConsistency(t *testing.T) {
	stable := mustSnapshot(t, linearExpenseSeries("Rent", 6, 90000, 0))
	erratic := mustSnapshot(t, []core.Transaction{
		tx(2025, 1, 1, "rent", 10000, core.Expense, "Rent"),
		tx(2025, 2, 1, "rent", 200000, core.Expense, "Rent"),
		tx(2025, 3, 1, "rent", 5000, core.Expense, "Rent"),
		tx(2025, 4, 1, "rent", 300000, core.Expense, "Rent"),
	})

	bs := Score(stable, DefaultOptions())
	be := Score(erratic, DefaultOptions())

	if !approx(bs.Consistency, 1, 1e-9) {
		t.Errorf("flat spending Consistency = %v, want 1", bs.Consistency)
	}
	if be.Consistency >= bs.Consistency {
		t.Errorf("erratic (%v) not below stable (%v)", be.Consistency, bs.Consistency)
	}
}

func TestScoreConsistencyNeutralWithOneMonth(t *testing.T) {
	b := Score(mustSnapshot(t, []core.Transaction{
		tx(2025, 3, 1, "rent", 90000, core.Expense, "Rent"),
	}), Options{WindowMonths: 1})
	if b.Consistency != 0.5 {
		t.Errorf("Consistency = %v, want neutral 0.5 with a single month", b.Consistency)
	}
}

func TestScoreWeightsAndTotal(t *testing.T) {
	// Full savings, even split over three categories in the latest month,
	// flat totals across both months: every factor maxes out except the
	// window includes the earlier month's identical spending.
	txs := []core.Transaction{
		tx(2025, 2, 1, "rent", 30000, core.Expense, "Rent"),
		tx(2025, 2, 5, "shop", 30000, core.Expense, "Groceries"),
		tx(2025, 2, 10, "dinner", 30000, core.Expense, "Dining"),
		tx(2025, 3, 1, "rent", 30000, core.Expense, "Rent"),
		tx(2025, 3, 5, "shop", 30000, core.Expense, "Groceries"),
		tx(2025, 3, 10, "dinner", 30000, core.Expense, "Dining"),
		tx(2025, 3, 27, "salary", 500000, core.Income, "Salary"),
	}
	b := Score(mustSnapshot(t, txs), Options{WindowMonths: 2})

	wantSavings := (500000.0 - 90000.0) / 500000.0
	if !approx(b.SavingsPoints, wantSavings*40, 1e-6) {
		t.Errorf("SavingsPoints = %v, want %v", b.SavingsPoints, wantSavings*40)
	}
	if !approx(b.DiversificationPoints, 30, 1e-6) {
		t.Errorf("DiversificationPoints = %v, want 30", b.DiversificationPoints)
	}
	if !approx(b.ConsistencyPoints, 30, 1e-6) {
		t.Errorf("ConsistencyPoints = %v, want 30", b.ConsistencyPoints)
	}
	want := int(wantSavings*40 + 30 + 30 + 0.5)
	if b.Total != want {
		t.Errorf("Total = %d, want %d", b.Total, want)
	}
	if b.Total < 0 || b.Total > 100 {
		t.Errorf("Total = %d outside [0,100]", b.Total)
	}
}

func TestScoreCustomWeights(t *testing.T) {
	txs := []core.Transaction{
		tx(2025, 3, 27, "salary", 100000, core.Income, "Salary"),
	}
	b := Score(mustSnapshot(t, txs), Options{
		Weights: Weights{Savings: 100, Diversification: 0, Consistency: 0},
	})
	if b.Total != 100 {
		t.Errorf("Total = %d, want 100 with all weight on a maxed factor", b.Total)
	}
}
