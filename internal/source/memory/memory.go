// Package memory provides an in-memory ledger backend for development and
// tests.
package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fintrack/internal/core"
)

type Store struct {
	mu   sync.Mutex
	cats []core.Category
	txs  []core.Transaction
}

func New(cats []core.Category) *Store {
	return &Store{cats: dedupeCategories(cats)}
}

// NewFromFiles seeds the store from seed_categories.txt and
// seed_transactions.txt under base. Missing or empty files fall back to a
// small default category set.
func NewFromFiles(base string) *Store {
	cats := parseCategoryLines(readLines(filepath.Join(base, "seed_categories.txt")))
	if len(cats) == 0 {
		cats = []core.Category{
			{Name: "Groceries"},
			{Name: "Rent"},
			{Name: "Transport"},
			{Name: "Salary"},
		}
	}
	s := New(cats)
	for _, line := range readLines(filepath.Join(base, "seed_transactions.txt")) {
		tx, err := parseTransactionLine(line)
		if err != nil {
			continue
		}
		s.txs = append(s.txs, tx)
	}
	return s
}

// Append stores the transaction and returns a synthetic reference.
func (s *Store) Append(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, tx)
	return fmt.Sprintf("mem:%d", len(s.txs)), nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out, nil
}

// UpsertCategory adds the category or updates its budget in place.
func (s *Store) UpsertCategory(_ context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(c.Name)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cats {
		if s.cats[i].Name == c.Name {
			s.cats[i].MonthlyBudget = c.MonthlyBudget
			return nil
		}
	}
	s.cats = append(s.cats, c)
	return nil
}

func (s *Store) Categories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Category, len(s.cats))
	copy(out, s.cats)
	return out, nil
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// parseCategoryLines accepts "Name" or "Name;budget" lines.
func parseCategoryLines(lines []string) []core.Category {
	var out []core.Category
	for _, line := range lines {
		parts := strings.SplitN(line, ";", 2)
		c := core.Category{Name: strings.TrimSpace(parts[0])}
		if c.Name == "" {
			continue
		}
		if len(parts) == 2 {
			if cents, err := core.ParseDecimalToCents(parts[1]); err == nil {
				c.MonthlyBudget = core.Money{Cents: cents}
			}
		}
		out = append(out, c)
	}
	return out
}

// parseTransactionLine accepts "YYYY-MM-DD;description;amount;type;category".
func parseTransactionLine(line string) (core.Transaction, error) {
	parts := strings.Split(line, ";")
	if len(parts) != 5 {
		return core.Transaction{}, fmt.Errorf("want 5 fields, got %d", len(parts))
	}
	var year, month, day int
	if _, err := fmt.Sscanf(strings.TrimSpace(parts[0]), "%d-%d-%d", &year, &month, &day); err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", parts[0], err)
	}
	cents, err := core.ParseDecimalToCents(parts[2])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", parts[2], err)
	}
	tx := core.Transaction{
		Date:        core.NewDate(year, month, day),
		Description: strings.TrimSpace(parts[1]),
		Amount:      core.Money{Cents: cents},
		Type:        core.TxType(strings.ToLower(strings.TrimSpace(parts[3]))),
		Category:    strings.TrimSpace(parts[4]),
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func dedupeCategories(in []core.Category) []core.Category {
	seen := map[string]struct{}{}
	out := make([]core.Category, 0, len(in))
	for _, c := range in {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			continue
		}
		if _, ok := seen[c.Name]; ok {
			continue
		}
		seen[c.Name] = struct{}{}
		out = append(out, c)
	}
	return out
}
