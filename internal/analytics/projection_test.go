package analytics

import (
	"errors"
	"testing"

	"fintrack/internal/core"
)

func TestProjectLinearSeries(t *testing.T) {
	// Monthly expenses 100, 110, ..., 150: slope 10, intercept 100.
	snap := mustSnapshot(t, linearExpenseSeries("Dining", 6, 10000, 1000))
	aggs := Aggregate(snap, 6)

	res, err := Project(aggs, "Dining", core.Expense, 12)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if !approx(res.Slope, 10, 1e-6) {
		t.Errorf("Slope = %v, want 10", res.Slope)
	}
	if !approx(res.Intercept, 100, 1e-6) {
		t.Errorf("Intercept = %v, want 100", res.Intercept)
	}
	if !approx(res.R2, 1, 1e-9) {
		t.Errorf("R2 = %v, want 1", res.R2)
	}
	if !approx(res.Confidence, 0.5, 1e-9) {
		t.Errorf("Confidence = %v, want 0.5 for 6 months", res.Confidence)
	}
	// First forecast continues the line: index 6 -> 160.00.
	if res.Monthly[0].Cents != 16000 {
		t.Errorf("Monthly[0] = %d cents, want 16000", res.Monthly[0].Cents)
	}
	if len(res.Monthly) != 12 {
		t.Errorf("len(Monthly) = %d, want 12", len(res.Monthly))
	}
	// Sum of months 7..18 of the line: 12*160 + 10*(0+..+11) = 2580.
	if res.AnnualTotal.Cents != 258000 {
		t.Errorf("AnnualTotal = %d cents, want 258000", res.AnnualTotal.Cents)
	}
}

func TestProjectConstantSeries(t *testing.T) {
	snap := mustSnapshot(t, linearExpenseSeries("Rent", 5, 90000, 0))
	aggs := Aggregate(snap, 5)

	res, err := Project(aggs, "Rent", core.Expense, 6)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if !approx(res.Slope, 0, 1e-9) {
		t.Errorf("Slope = %v, want 0", res.Slope)
	}
	if !approx(res.R2, 1, 1e-9) {
		t.Errorf("R2 = %v, want 1 for a flat series", res.R2)
	}
	for i, m := range res.Monthly {
		if m.Cents != 90000 {
			t.Errorf("Monthly[%d] = %d cents, want 90000", i, m.Cents)
		}
	}
	// A six-month horizon still reports a full-year total.
	if res.AnnualTotal.Cents != 90000*12 {
		t.Errorf("AnnualTotal = %d cents, want %d", res.AnnualTotal.Cents, int64(90000*12))
	}
}

func TestProjectClampsNegativeForecasts(t *testing.T) {
	// Steeply declining: 300, 200, 100 drops below zero within the horizon.
	snap := mustSnapshot(t, linearExpenseSeries("Transport", 3, 30000, -10000))
	aggs := Aggregate(snap, 3)

	res, err := Project(aggs, "Transport", core.Expense, 6)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	for i, m := range res.Monthly {
		if m.Cents < 0 {
			t.Errorf("Monthly[%d] = %d cents, negative forecast not clamped", i, m.Cents)
		}
	}
	if last := res.Monthly[len(res.Monthly)-1]; last.Cents != 0 {
		t.Errorf("Monthly[last] = %d cents, want 0 after the line crosses zero", last.Cents)
	}
}

func TestProjectInsufficientHistory(t *testing.T) {
	snap := mustSnapshot(t, linearExpenseSeries("Dining", 2, 10000, 1000))
	aggs := Aggregate(snap, 2)

	_, err := Project(aggs, "Dining", core.Expense, 12)
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Fatalf("Project() error = %v, want ErrInsufficientHistory", err)
	}
	var insufficient *InsufficientHistoryError
	if !errors.As(err, &insufficient) {
		t.Fatalf("error %v does not carry *InsufficientHistoryError", err)
	}
	if insufficient.Category != "Dining" || insufficient.Points != 2 || insufficient.Min != MinProjectionPoints {
		t.Errorf("error detail = %+v, want Dining with 2 of %d points", insufficient, MinProjectionPoints)
	}
}

func TestProjectConfidenceCapsAtOne(t *testing.T) {
	snap := mustSnapshot(t, linearExpenseSeries("Rent", 18, 90000, 0))
	aggs := Aggregate(snap, 18)

	res, err := Project(aggs, "Rent", core.Expense, 12)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if res.Confidence != 1 {
		t.Errorf("Confidence = %v, want 1 beyond 12 months of history", res.Confidence)
	}
}

func TestProjectAll(t *testing.T) {
	txs := linearExpenseSeries("Rent", 4, 90000, 0)
	txs = append(txs, linearExpenseSeries("Dining", 4, 10000, 1000)...)
	// Transport appears only in the last month. The grid backfills its
	// earlier months with zeros, so it still has a full series to fit.
	txs = append(txs, tx(2025, 4, 2, "bus pass", 3000, core.Expense, "Transport"))
	snap := mustSnapshot(t, txs)
	aggs := Aggregate(snap, 4)

	results, failures := ProjectAll(aggs, core.Expense, 12)
	if len(failures) != 0 {
		t.Fatalf("failures = %v, want none with a backfilled grid", failures)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	// Alphabetical: Dining, Rent, Transport.
	if results[0].Category != "Dining" || results[1].Category != "Rent" || results[2].Category != "Transport" {
		t.Errorf("result order = %v, %v, %v", results[0].Category, results[1].Category, results[2].Category)
	}
}
