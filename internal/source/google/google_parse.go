package google

import (
	"fmt"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a
// 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}

// parseAmountToCents handles amounts as sheet numbers or decimal strings
// with either separator.
func parseAmountToCents(s string) (int64, bool) {
	if cents, err := core.ParseDecimalToCents(s); err == nil {
		return cents, true
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return int64((f * 100.0) + 0.5), true
}

// parseTransactionRow parses one A:E sheet row into a transaction.
func parseTransactionRow(cols []string) (core.Transaction, error) {
	if len(cols) < 5 {
		return core.Transaction{}, fmt.Errorf("want 5 columns, got %d", len(cols))
	}
	var year, month, day int
	if _, err := fmt.Sscanf(cols[0], "%d-%d-%d", &year, &month, &day); err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", cols[0], err)
	}
	cents, ok := parseAmountToCents(cols[2])
	if !ok {
		return core.Transaction{}, fmt.Errorf("parse amount %q", cols[2])
	}
	tx := core.Transaction{
		Date:        core.NewDate(year, month, day),
		Description: cols[1],
		Amount:      core.Money{Cents: cents},
		Type:        core.TxType(strings.ToLower(cols[3])),
		Category:    cols[4],
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}
