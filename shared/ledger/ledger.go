// Package ledger holds the pure aggregation over a list of transactions:
// month/year filtering and the income, expenses and balance totals. Results
// are recomputed on every call; nothing here is cached.
package ledger

import (
	"github.com/fintrack/tracker/shared/models"
	"github.com/shopspring/decimal"
)

// Period selects transactions by calendar month and year. A zero field means
// "any".
type Period struct {
	Month int `form:"month" json:"month,omitempty" validate:"omitempty,min=1,max=12"`
	Year  int `form:"year" json:"year,omitempty" validate:"omitempty,min=1"`
}

func (p Period) Contains(d models.Date) bool {
	if p.Month != 0 && int(d.Month()) != p.Month {
		return false
	}
	if p.Year != 0 && d.Year() != p.Year {
		return false
	}
	return true
}

type Summary struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	Balance       float64 `json:"balance"`
	Count         int     `json:"count"`
}

// Filter returns the transactions dated within p, preserving order.
func Filter(txs []models.TransactionView, p Period) []models.TransactionView {
	out := make([]models.TransactionView, 0, len(txs))
	for _, t := range txs {
		if p.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

// Summarize totals positive amounts as income and the magnitude of negative
// amounts as expenses. Zero amounts count toward Count only.
func Summarize(txs []models.TransactionView) Summary {
	income := decimal.Zero
	expenses := decimal.Zero
	for _, t := range txs {
		amount := decimal.NewFromFloat(t.Amount)
		switch amount.Sign() {
		case 1:
			income = income.Add(amount)
		case -1:
			expenses = expenses.Add(amount.Abs())
		}
	}
	return Summary{
		TotalIncome:   income.InexactFloat64(),
		TotalExpenses: expenses.InexactFloat64(),
		Balance:       income.Sub(expenses).InexactFloat64(),
		Count:         len(txs),
	}
}

// SignedAmount applies the sign convention for a transaction kind: expenses
// are stored negative, income positive, whatever sign the magnitude had.
func SignedAmount(kind Kind, magnitude float64) float64 {
	m := decimal.NewFromFloat(magnitude).Abs()
	if kind == Expense {
		m = m.Neg()
	}
	return m.InexactFloat64()
}
