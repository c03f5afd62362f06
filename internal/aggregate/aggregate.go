// Package aggregate derives summary views from the raw transaction
// collections. Every function is pure: same input, same output, no side
// effects, no reliance on wall-clock time. Inputs are treated as read-only
// snapshots and are never mutated.
package aggregate

import (
	"sort"

	"fintrack/internal/core"
)

// CategoryAmount is an amount aggregated under a category name,
// shaped for a distribution chart.
type CategoryAmount struct {
	Name  core.Category `json:"name"`
	Value core.Money    `json:"value"`
}

// MonthAmount is an amount aggregated under a year+month label,
// shaped for a trend chart.
type MonthAmount struct {
	Label string     `json:"month"`
	Total core.Money `json:"total"`
}

// TotalExpenses sums all expense amounts. Empty input yields zero.
func TotalExpenses(expenses []core.Expense) core.Money {
	var cents int64
	for _, e := range expenses {
		cents += e.Amount.Cents
	}
	return core.Money{Cents: cents}
}

// TotalIncome sums all income amounts. Empty input yields zero.
func TotalIncome(income []core.Income) core.Money {
	var cents int64
	for _, i := range income {
		cents += i.Amount.Cents
	}
	return core.Money{Cents: cents}
}

// Balance is total income minus total expenses. May be negative.
func Balance(income []core.Income, expenses []core.Expense) core.Money {
	return core.Money{Cents: TotalIncome(income).Cents - TotalExpenses(expenses).Cents}
}

// ByCategory groups expenses by category, summing amounts. Only categories
// with at least one expense appear. The sum of all values equals
// TotalExpenses exactly.
func ByCategory(expenses []core.Expense) map[core.Category]core.Money {
	sums := make(map[core.Category]core.Money)
	for _, e := range expenses {
		sums[e.Category] = core.Money{Cents: sums[e.Category].Cents + e.Amount.Cents}
	}
	return sums
}

// Distribution materializes the per-category sums as an ordered sequence
// suitable for a doughnut chart. Categories appear in order of first
// appearance among the input expenses, so the result is deterministic for
// a given input order.
func Distribution(expenses []core.Expense) []CategoryAmount {
	index := make(map[core.Category]int)
	var out []CategoryAmount
	for _, e := range expenses {
		i, seen := index[e.Category]
		if !seen {
			index[e.Category] = len(out)
			out = append(out, CategoryAmount{Name: e.Category, Value: e.Amount})
			continue
		}
		out[i].Value.Cents += e.Amount.Cents
	}
	return out
}

// ByMonth groups expenses by calendar year+month, newest month first.
// Labels use the "Jan 2024" form. A caller wanting oldest-first display
// reverses the returned sequence. The sum of all totals equals
// TotalExpenses exactly.
func ByMonth(expenses []core.Expense) []MonthAmount {
	if len(expenses) == 0 {
		return nil
	}

	// Sort a copy by date descending, then fold consecutive entries
	// sharing a year+month. Input order must stay untouched.
	sorted := make([]core.Expense, len(expenses))
	copy(sorted, expenses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date.Time)
	})

	var out []MonthAmount
	for _, e := range sorted {
		label := e.Date.Format("Jan 2006")
		if n := len(out); n > 0 && out[n-1].Label == label {
			out[n-1].Total.Cents += e.Amount.Cents
			continue
		}
		out = append(out, MonthAmount{Label: label, Total: e.Amount})
	}
	return out
}
