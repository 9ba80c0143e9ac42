package analytics

import (
	"sort"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// CategoryExpense is one category's share of a month's spending.
type CategoryExpense struct {
	Category string
	Total    core.Money
	Share    float64 // fraction of the month's total expenses
}

// BudgetStatus compares a month's spending in one category against that
// category's configured monthly budget. Only budgeted categories appear.
type BudgetStatus struct {
	Category string
	Budget   core.Money
	Spent    core.Money
	Over     bool
}

// MonthInsights summarizes a single month: totals, balance, savings rate,
// the heaviest expense categories and budget adherence.
type MonthInsights struct {
	Month        ledger.Month
	TotalIncome  core.Money
	TotalExpense core.Money
	Balance      core.Money // income minus expenses, may be negative
	SavingsRate  float64    // 0 when the month has no income

	TopExpenses []CategoryExpense // up to five, largest first
	Budgets     []BudgetStatus    // alphabetical, budgeted categories only
}

// maxTopExpenses caps the top-spending list.
const maxTopExpenses = 5

// Insights builds the summary for one calendar month of the snapshot.
func Insights(snap *ledger.Snapshot, m ledger.Month) MonthInsights {
	out := MonthInsights{Month: m}
	if snap == nil {
		return out
	}

	expenseByCategory := make(map[string]int64)
	for _, tx := range snap.ForMonth(m) {
		switch tx.Type {
		case core.Income:
			out.TotalIncome.Cents += tx.Amount.Cents
		case core.Expense:
			out.TotalExpense.Cents += tx.Amount.Cents
			expenseByCategory[tx.Category] += tx.Amount.Cents
		}
	}
	out.Balance.Cents = out.TotalIncome.Cents - out.TotalExpense.Cents
	if out.TotalIncome.Cents > 0 {
		out.SavingsRate = float64(out.Balance.Cents) / float64(out.TotalIncome.Cents)
	}

	for c, cents := range expenseByCategory {
		e := CategoryExpense{Category: c, Total: core.Money{Cents: cents}}
		if out.TotalExpense.Cents > 0 {
			e.Share = float64(cents) / float64(out.TotalExpense.Cents)
		}
		out.TopExpenses = append(out.TopExpenses, e)
	}
	sort.SliceStable(out.TopExpenses, func(i, j int) bool {
		if out.TopExpenses[i].Total.Cents != out.TopExpenses[j].Total.Cents {
			return out.TopExpenses[i].Total.Cents > out.TopExpenses[j].Total.Cents
		}
		return out.TopExpenses[i].Category < out.TopExpenses[j].Category
	})
	if len(out.TopExpenses) > maxTopExpenses {
		out.TopExpenses = out.TopExpenses[:maxTopExpenses]
	}

	cats := snap.Categories()
	for _, name := range cats.Names() {
		cat, _ := cats.Resolve(name)
		if cat.MonthlyBudget.Cents <= 0 {
			continue
		}
		spent := core.Money{Cents: expenseByCategory[name]}
		out.Budgets = append(out.Budgets, BudgetStatus{
			Category: name,
			Budget:   cat.MonthlyBudget,
			Spent:    spent,
			Over:     spent.Cents > cat.MonthlyBudget.Cents,
		})
	}
	return out
}
