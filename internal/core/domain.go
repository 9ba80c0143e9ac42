package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

type (
	// TxType marks a transaction as money coming in or going out.
	// Amounts are stored as positive magnitudes; the type carries the sign.
	TxType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single dated, categorized ledger entry. Once handed
	// to the analytics engine it is treated as immutable.
	Transaction struct {
		Date        Date
		Description string
		Amount      Money // positive magnitude, sign carried by Type
		Type        TxType
		Category    string
	}

	// Category is a user-defined label partitioning transactions.
	// MonthlyBudget is optional; zero cents means no budget is set.
	Category struct {
		Name          string
		MonthlyBudget Money
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
)

// UnresolvedCategoryError reports a transaction referencing a category that
// does not exist in the ledger. It is a data-integrity error: the whole
// analysis run is aborted rather than silently dropping the transaction,
// since silent exclusion would corrupt aggregates.
type UnresolvedCategoryError struct {
	Category    string
	Description string
}

func (e *UnresolvedCategoryError) Error() string {
	return fmt.Sprintf("unresolved category reference %q on transaction %q", e.Category, e.Description)
}

// NewDate creates a Date from year, month, day at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (t TxType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (tx Transaction) Validate() error {
	if err := tx.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(tx.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(tx.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if err := tx.Type.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategory
	}
	if c.MonthlyBudget.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// CategorySet is an immutable lookup of known categories by name.
type CategorySet struct {
	byName map[string]Category
}

func NewCategorySet(cats []Category) CategorySet {
	byName := make(map[string]Category, len(cats))
	for _, c := range cats {
		byName[c.Name] = c
	}
	return CategorySet{byName: byName}
}

// Resolve looks up a category by name.
func (s CategorySet) Resolve(name string) (Category, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// Names returns all category names in sorted order.
func (s CategorySet) Names() []string {
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s CategorySet) Len() int {
	return len(s.byName)
}
