package ledger

import (
	"errors"
	"testing"

	"fintrack/internal/core"
)

func testCategories() core.CategorySet {
	return core.NewCategorySet([]core.Category{
		{Name: "Groceries"},
		{Name: "Rent"},
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

func TestNewSnapshotOrdersChronologically(t *testing.T) {
	snap, err := NewSnapshot([]core.Transaction{
		tx(2025, 3, 20, "rent march", 90000, core.Expense, "Rent"),
		tx(2025, 1, 5, "groceries", 4000, core.Expense, "Groceries"),
		tx(2025, 2, 28, "salary", 250000, core.Income, "Salary"),
	}, testCategories())
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}

	got := snap.Transactions()
	if got[0].Description != "groceries" || got[1].Description != "salary" || got[2].Description != "rent march" {
		t.Errorf("snapshot not chronologically ordered: %v, %v, %v",
			got[0].Description, got[1].Description, got[2].Description)
	}
}

func TestNewSnapshotRejectsUnresolvedCategory(t *testing.T) {
	_, err := NewSnapshot([]core.Transaction{
		tx(2025, 1, 5, "mystery", 4000, core.Expense, "Travel"),
	}, testCategories())

	var unresolved *core.UnresolvedCategoryError
	if !errors.As(err, &unresolved) {
		t.Fatalf("NewSnapshot() error = %v, want *core.UnresolvedCategoryError", err)
	}
	if unresolved.Category != "Travel" {
		t.Errorf("unresolved.Category = %q, want %q", unresolved.Category, "Travel")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	input := []core.Transaction{
		tx(2025, 1, 5, "groceries", 4000, core.Expense, "Groceries"),
	}
	snap, err := NewSnapshot(input, testCategories())
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}

	input[0].Description = "mutated"
	if snap.Transactions()[0].Description != "groceries" {
		t.Error("snapshot shares memory with caller slice")
	}
}

func TestWindowAndRange(t *testing.T) {
	snap, err := NewSnapshot([]core.Transaction{
		tx(2024, 11, 10, "groceries", 3000, core.Expense, "Groceries"),
		tx(2025, 2, 10, "groceries", 3500, core.Expense, "Groceries"),
	}, testCategories())
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}

	from, to, ok := snap.Window(4)
	if !ok {
		t.Fatal("Window() ok = false")
	}
	if (from != Month{Year: 2024, Month: 11}) {
		t.Errorf("from = %v, want 2024-11", from)
	}
	if (to != Month{Year: 2025, Month: 2}) {
		t.Errorf("to = %v, want 2025-02", to)
	}

	months := Range(from, to)
	want := []Month{{2024, 11}, {2024, 12}, {2025, 1}, {2025, 2}}
	if len(months) != len(want) {
		t.Fatalf("Range() len = %d, want %d", len(months), len(want))
	}
	for i := range want {
		if months[i] != want[i] {
			t.Errorf("Range()[%d] = %v, want %v", i, months[i], want[i])
		}
	}
}

func TestWindowClampsToEarliestMonth(t *testing.T) {
	snap, err := NewSnapshot([]core.Transaction{
		tx(2025, 1, 1, "rent", 90000, core.Expense, "Rent"),
		tx(2025, 3, 1, "rent", 90000, core.Expense, "Rent"),
	}, testCategories())
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}

	from, _, ok := snap.Window(12)
	if !ok {
		t.Fatal("Window() ok = false")
	}
	if (from != Month{Year: 2025, Month: 1}) {
		t.Errorf("from = %v, want clamp to 2025-01", from)
	}
}

func TestByMonthIncludesSilentMonths(t *testing.T) {
	snap, err := NewSnapshot([]core.Transaction{
		tx(2024, 12, 1, "rent", 90000, core.Expense, "Rent"),
		tx(2025, 2, 1, "rent", 90000, core.Expense, "Rent"),
	}, testCategories())
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}

	grouped := snap.ByMonth(3)
	if len(grouped) != 3 {
		t.Fatalf("ByMonth(3) months = %d, want 3", len(grouped))
	}
	silent, ok := grouped[Month{Year: 2025, Month: 1}]
	if !ok {
		t.Fatal("silent month 2025-01 missing from grouping")
	}
	if len(silent) != 0 {
		t.Errorf("silent month has %d transactions, want 0", len(silent))
	}
}

func TestInWindowExcludesOlderMonths(t *testing.T) {
	snap, err := NewSnapshot([]core.Transaction{
		tx(2023, 1, 1, "ancient rent", 80000, core.Expense, "Rent"),
		tx(2025, 1, 1, "recent rent", 90000, core.Expense, "Rent"),
		tx(2025, 2, 1, "groceries", 4000, core.Expense, "Groceries"),
	}, testCategories())
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}

	got := snap.InWindow(12)
	if len(got) != 2 {
		t.Fatalf("InWindow(12) len = %d, want 2", len(got))
	}
	for _, tx := range got {
		if tx.Description == "ancient rent" {
			t.Error("transaction outside window included")
		}
	}
}
