package google

import "testing"

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		base string
		year int
		want string
	}{
		{"Transactions", 2025, "2025 Transactions"},
		{"2024 Transactions", 2025, "2024 Transactions"},
		{"", 2025, ""},
	}
	for _, tt := range tests {
		if got := yearPrefixedName(tt.base, tt.year); got != tt.want {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
		}
	}
}

func TestParseTransactionRow(t *testing.T) {
	tests := []struct {
		name    string
		cols    []string
		wantErr bool
	}{
		{"valid", []string{"2025-03-05", "weekly shop", "45.50", "expense", "Groceries"}, false},
		{"comma decimal", []string{"2025-03-05", "weekly shop", "45,50", "expense", "Groceries"}, false},
		{"uppercase type", []string{"2025-03-27", "salary", "2500.00", "Income", "Salary"}, false},
		{"header row", []string{"Date", "Description", "Amount", "Type", "Category"}, true},
		{"short row", []string{"2025-03-05", "weekly shop"}, true},
		{"zero amount", []string{"2025-03-05", "weekly shop", "0", "expense", "Groceries"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := parseTransactionRow(tt.cols)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseTransactionRow(%v) accepted", tt.cols)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTransactionRow(%v) error = %v", tt.cols, err)
			}
			if err := tx.Validate(); err != nil {
				t.Errorf("parsed transaction invalid: %v", err)
			}
		})
	}
}

func TestParseAmountToCents(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"45.50", 4550, true},
		{"45,50", 4550, true},
		{"100", 10000, true},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseAmountToCents(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseAmountToCents(%q) = %d, %v, want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
