// Package stats aggregates stored transactions into the dashboard figures.
// Sums run on decimals so that a month of two-decimal amounts never shows
// float drift.
package stats

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pal-budget/internal/infer"
	"pal-budget/internal/store"
)

// MonthlySummary is the income/expense balance of one calendar month.
type MonthlySummary struct {
	Balance          float64 `json:"balance"`
	Income           float64 `json:"income"`
	Expense          float64 `json:"expense"`
	TransactionCount int     `json:"transaction_count"`
}

// CategoryBreakdown is one category's share of a month's transactions of one
// type.
type CategoryBreakdown struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
	Count      int     `json:"count"`
}

// TrendReport holds aligned per-day income/expense series for the last N
// days, zero-filled, dates formatted MM/DD.
type TrendReport struct {
	Dates   []string  `json:"dates"`
	Expense []float64 `json:"expense"`
	Income  []float64 `json:"income"`
}

// UserTotals is the profile page summary.
type UserTotals struct {
	Days         int     `json:"days"`
	TotalRecords int     `json:"total_records"`
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
}

func monthRange(year int, month time.Month) (store.Date, store.Date) {
	start := store.NewDate(year, month, 1)
	end := store.DateOf(start.AddDate(0, 1, -1))
	return start, end
}

// Monthly computes the summary for the given month.
func Monthly(s *store.Store, userID int64, year int, month time.Month) (MonthlySummary, error) {
	start, end := monthRange(year, month)
	txns, err := s.ListTransactions(userID, store.TransactionFilter{
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return MonthlySummary{}, fmt.Errorf("stats: monthly: %w", err)
	}

	income := decimal.Zero
	expense := decimal.Zero
	for _, t := range txns {
		amount := decimal.NewFromFloat(t.Amount)
		if t.Type == infer.TypeIncome {
			income = income.Add(amount)
		} else {
			expense = expense.Add(amount)
		}
	}

	return MonthlySummary{
		Balance:          income.Sub(expense).InexactFloat64(),
		Income:           income.InexactFloat64(),
		Expense:          expense.InexactFloat64(),
		TransactionCount: len(txns),
	}, nil
}

// ByCategory computes per-category totals for one transaction type in the
// given month. Percentages are of the type's monthly total, rounded to one
// decimal.
func ByCategory(s *store.Store, userID int64, txType infer.TransactionType, year int, month time.Month) ([]CategoryBreakdown, error) {
	start, end := monthRange(year, month)
	txns, err := s.ListTransactions(userID, store.TransactionFilter{
		Type:      txType,
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return nil, fmt.Errorf("stats: by category: %w", err)
	}

	amounts := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	var order []string
	total := decimal.Zero
	for _, t := range txns {
		amount := decimal.NewFromFloat(t.Amount)
		if _, seen := amounts[t.Category]; !seen {
			order = append(order, t.Category)
		}
		amounts[t.Category] = amounts[t.Category].Add(amount)
		counts[t.Category]++
		total = total.Add(amount)
	}

	result := make([]CategoryBreakdown, 0, len(order))
	hundred := decimal.NewFromInt(100)
	for _, category := range order {
		amount := amounts[category]
		pct := 0.0
		if total.IsPositive() {
			pct = amount.Mul(hundred).Div(total).Round(1).InexactFloat64()
		}
		result = append(result, CategoryBreakdown{
			Category:   category,
			Amount:     amount.InexactFloat64(),
			Percentage: pct,
			Count:      counts[category],
		})
	}
	return result, nil
}

// Trend computes aligned per-day series for the last days calendar days,
// today included.
func Trend(s *store.Store, userID int64, days int) (TrendReport, error) {
	end := store.DateOf(time.Now())
	start := store.DateOf(end.AddDate(0, 0, -(days - 1)))

	txns, err := s.ListTransactions(userID, store.TransactionFilter{
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return TrendReport{}, fmt.Errorf("stats: trend: %w", err)
	}

	expense := make(map[string]decimal.Decimal)
	income := make(map[string]decimal.Decimal)
	for _, t := range txns {
		key := t.Date.Format("01/02")
		amount := decimal.NewFromFloat(t.Amount)
		if t.Type == infer.TypeExpense {
			expense[key] = expense[key].Add(amount)
		} else {
			income[key] = income[key].Add(amount)
		}
	}

	report := TrendReport{
		Dates:   make([]string, 0, days),
		Expense: make([]float64, 0, days),
		Income:  make([]float64, 0, days),
	}
	for d := start.Time; !d.After(end.Time); d = d.AddDate(0, 0, 1) {
		key := d.Format("01/02")
		report.Dates = append(report.Dates, key)
		report.Expense = append(report.Expense, expense[key].InexactFloat64())
		report.Income = append(report.Income, income[key].InexactFloat64())
	}
	return report, nil
}

// ForUser computes the all-time totals shown on the profile page.
func ForUser(s *store.Store, user *store.User) (UserTotals, error) {
	txns, err := s.ListTransactions(user.ID, store.TransactionFilter{})
	if err != nil {
		return UserTotals{}, fmt.Errorf("stats: user totals: %w", err)
	}

	income := decimal.Zero
	expense := decimal.Zero
	for _, t := range txns {
		amount := decimal.NewFromFloat(t.Amount)
		if t.Type == infer.TypeIncome {
			income = income.Add(amount)
		} else {
			expense = expense.Add(amount)
		}
	}

	days := 0
	if !user.CreatedAt.IsZero() {
		days = int(time.Since(user.CreatedAt).Hours() / 24)
	}

	return UserTotals{
		Days:         days,
		TotalRecords: len(txns),
		TotalIncome:  income.InexactFloat64(),
		TotalExpense: expense.InexactFloat64(),
	}, nil
}
