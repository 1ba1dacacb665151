// Package pipeline derives chart and summary data from transaction lists.
// Every function is pure: inputs are never mutated.
package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/duskwallet/duskwallet/internal/model"
)

// MaxMonths is how many month keys MonthlySeries keeps.
const MaxMonths = 6

// RecentCount is how many transactions the dashboard lists.
const RecentCount = 5

// CategoryTotals sums EXPENSE amounts per category, in first-seen order.
// Categories with no expenses are absent.
func CategoryTotals(txs []model.Transaction) []model.CategoryTotal {
	index := make(map[model.Category]int)
	var out []model.CategoryTotal

	for _, t := range txs {
		if !t.IsExpense() {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, model.CategoryTotal{Category: t.Category, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(t.Amount)
	}
	return out
}

// MonthKey formats the local month of t as "M/YYYY", month 1-indexed and
// unpadded.
func MonthKey(t model.Transaction) string {
	d := t.Date.Local()
	return fmt.Sprintf("%d/%d", int(d.Month()), d.Year())
}

// MonthlySeries sums income and expense per month key. INCOME counts as
// income and anything else as expense. Only the last MaxMonths keys in
// first-seen order are returned; the window is not sorted by date, so
// unsorted input yields whichever months were seen last.
func MonthlySeries(txs []model.Transaction) []model.MonthlyPoint {
	index := make(map[string]int)
	var out []model.MonthlyPoint

	for _, t := range txs {
		key := MonthKey(t)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, model.MonthlyPoint{Month: key, Income: decimal.Zero, Expense: decimal.Zero})
		}
		if t.Type == model.Income {
			out[i].Income = out[i].Income.Add(t.Amount)
		} else {
			out[i].Expense = out[i].Expense.Add(t.Amount)
		}
	}

	if len(out) > MaxMonths {
		out = out[len(out)-MaxMonths:]
	}
	return out
}

// Totals is a locally computed income/expense/balance summary.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Balance is income minus expense.
func (t Totals) Balance() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// Dashboard converts the totals to the backend's dashboard shape.
func (t Totals) Dashboard() model.Dashboard {
	return model.Dashboard{TotalIncome: t.Income, TotalExpense: t.Expense, Balance: t.Balance()}
}

// SumByType totals income and expense across txs.
func SumByType(txs []model.Transaction) Totals {
	tot := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range txs {
		if t.Type == model.Income {
			tot.Income = tot.Income.Add(t.Amount)
		} else {
			tot.Expense = tot.Expense.Add(t.Amount)
		}
	}
	return tot
}

// Recent returns the first n transactions in backend order.
func Recent(txs []model.Transaction, n int) []model.Transaction {
	if n < 0 {
		n = 0
	}
	if len(txs) < n {
		n = len(txs)
	}
	return append([]model.Transaction(nil), txs[:n]...)
}

// Filter selects transactions for the transactions list. Empty fields
// match everything.
type Filter struct {
	Search        string // case-insensitive substring of the description
	Type          model.TransactionType
	Category      model.Category
	PaymentMethod model.PaymentMethod
}

// Active reports whether any criterion is set.
func (f Filter) Active() bool {
	return strings.TrimSpace(f.Search) != "" || f.Type != "" || f.Category != "" || f.PaymentMethod != ""
}

// Match reports whether t satisfies every criterion.
func (f Filter) Match(t model.Transaction) bool {
	if q := strings.TrimSpace(f.Search); q != "" &&
		!strings.Contains(strings.ToLower(t.Description), strings.ToLower(q)) {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.PaymentMethod != "" && t.PaymentMethod != f.PaymentMethod {
		return false
	}
	return true
}

// Apply returns a new slice of the matching transactions, newest first.
// Ties keep their input order.
func Apply(txs []model.Transaction, f Filter) []model.Transaction {
	out := make([]model.Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// Find returns the transaction with the given id.
func Find(txs []model.Transaction, id string) (model.Transaction, bool) {
	for _, t := range txs {
		if t.ID == id {
			return t, true
		}
	}
	return model.Transaction{}, false
}
