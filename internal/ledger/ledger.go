// Package ledger provides a read-only, time-ordered view over a set of
// transactions. It is pure data shaping: every analytics component consumes
// a Snapshot and none of them mutates it.
package ledger

import (
	"fmt"
	"sort"

	"fintrack/internal/core"
)

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month int // 1-12
}

// MonthOf returns the month a date falls in.
func MonthOf(d core.Date) Month {
	return Month{Year: d.Year(), Month: d.Month()}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// Before reports whether m is chronologically before o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	if m.Month == 12 {
		return Month{Year: m.Year + 1, Month: 1}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Prev returns the preceding calendar month.
func (m Month) Prev() Month {
	if m.Month == 1 {
		return Month{Year: m.Year - 1, Month: 12}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

// Range returns the contiguous inclusive sequence of months from from to to.
// An empty slice is returned when to precedes from.
func Range(from, to Month) []Month {
	if to.Before(from) {
		return nil
	}
	var out []Month
	for m := from; !to.Before(m); m = m.Next() {
		out = append(out, m)
	}
	return out
}

// Snapshot is an immutable, chronologically ordered view of a transaction
// set taken at call time. Building one validates every category reference;
// analyses over the same Snapshot are safe to run concurrently.
type Snapshot struct {
	txs  []core.Transaction
	cats core.CategorySet
}

// NewSnapshot copies and orders the given transactions. A transaction whose
// category does not resolve against cats fails the whole construction with
// *core.UnresolvedCategoryError: partial snapshots would corrupt aggregates.
func NewSnapshot(txs []core.Transaction, cats core.CategorySet) (*Snapshot, error) {
	for _, tx := range txs {
		if _, ok := cats.Resolve(tx.Category); !ok {
			return nil, &core.UnresolvedCategoryError{
				Category:    tx.Category,
				Description: tx.Description,
			}
		}
	}
	copied := make([]core.Transaction, len(txs))
	copy(copied, txs)
	sort.SliceStable(copied, func(i, j int) bool {
		return copied[i].Date.Before(copied[j].Date.Time)
	})
	return &Snapshot{txs: copied, cats: cats}, nil
}

// Len returns the number of transactions in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.txs)
}

// Empty reports whether the snapshot holds no transactions.
func (s *Snapshot) Empty() bool {
	return len(s.txs) == 0
}

// Categories returns the category set the snapshot was validated against.
func (s *Snapshot) Categories() core.CategorySet {
	return s.cats
}

// Transactions returns a copy of the ordered transaction list.
func (s *Snapshot) Transactions() []core.Transaction {
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

// LatestMonth returns the month of the most recent transaction.
// The boolean is false for an empty snapshot.
func (s *Snapshot) LatestMonth() (Month, bool) {
	if len(s.txs) == 0 {
		return Month{}, false
	}
	return MonthOf(s.txs[len(s.txs)-1].Date), true
}

// Window returns the trailing window of n months ending at the latest
// transaction month. The start clamps to the earliest transaction month,
// so a short history never yields months that predate the data. The
// boolean is false for an empty snapshot.
func (s *Snapshot) Window(months int) (from, to Month, ok bool) {
	to, ok = s.LatestMonth()
	if !ok {
		return Month{}, Month{}, false
	}
	earliest := MonthOf(s.txs[0].Date)
	from = to
	for i := 1; i < months; i++ {
		if from == earliest {
			break
		}
		from = from.Prev()
	}
	if from.Before(earliest) {
		from = earliest
	}
	return from, to, true
}

// InWindow returns the transactions falling inside the trailing window of
// n months, preserving chronological order.
func (s *Snapshot) InWindow(months int) []core.Transaction {
	from, to, ok := s.Window(months)
	if !ok {
		return nil
	}
	var out []core.Transaction
	for _, tx := range s.txs {
		m := MonthOf(tx.Date)
		if m.Before(from) || to.Before(m) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// ByMonth groups the transactions of a trailing window by month. Every
// month of the window is present in the result, including silent ones,
// so callers get a contiguous monthly index.
func (s *Snapshot) ByMonth(months int) map[Month][]core.Transaction {
	from, to, ok := s.Window(months)
	if !ok {
		return nil
	}
	grouped := make(map[Month][]core.Transaction)
	for _, m := range Range(from, to) {
		grouped[m] = nil
	}
	for _, tx := range s.InWindow(months) {
		m := MonthOf(tx.Date)
		grouped[m] = append(grouped[m], tx)
	}
	return grouped
}

// ForMonth returns the transactions of one calendar month in order.
func (s *Snapshot) ForMonth(m Month) []core.Transaction {
	var out []core.Transaction
	for _, tx := range s.txs {
		if MonthOf(tx.Date) == m {
			out = append(out, tx)
		}
	}
	return out
}
