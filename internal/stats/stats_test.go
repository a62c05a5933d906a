package stats

import (
	"path/filepath"
	"testing"
	"time"

	"pal-budget/internal/infer"
	"pal-budget/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seed(t *testing.T, s *store.Store, txType infer.TransactionType, amount float64, category string, date store.Date) {
	t.Helper()
	err := s.CreateTransaction(&store.Transaction{
		Type:     txType,
		Amount:   amount,
		Category: category,
		Date:     date,
		Source:   store.SourceManual,
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error: %v", err)
	}
}

func TestMonthly(t *testing.T) {
	s := openTestStore(t)
	aug := func(day int) store.Date { return store.NewDate(2026, time.August, day) }

	seed(t, s, infer.TypeIncome, 8000, "工资", aug(1))
	seed(t, s, infer.TypeExpense, 35.10, "餐饮", aug(10))
	seed(t, s, infer.TypeExpense, 30.20, "交通", aug(20))
	// Outside the month; must not count.
	seed(t, s, infer.TypeExpense, 999, "购物", store.NewDate(2026, time.July, 31))
	seed(t, s, infer.TypeExpense, 999, "购物", store.NewDate(2026, time.September, 1))

	got, err := Monthly(s, store.DefaultUserID, 2026, time.August)
	if err != nil {
		t.Fatalf("Monthly() error: %v", err)
	}
	want := MonthlySummary{
		Balance:          7934.70,
		Income:           8000,
		Expense:          65.30,
		TransactionCount: 3,
	}
	if got != want {
		t.Errorf("Monthly() = %+v, want %+v", got, want)
	}
}

func TestMonthlyEmpty(t *testing.T) {
	s := openTestStore(t)

	got, err := Monthly(s, store.DefaultUserID, 2026, time.August)
	if err != nil {
		t.Fatalf("Monthly() error: %v", err)
	}
	if got != (MonthlySummary{}) {
		t.Errorf("Monthly() on empty store = %+v, want zero summary", got)
	}
}

func TestByCategory(t *testing.T) {
	s := openTestStore(t)
	aug := func(day int) store.Date { return store.NewDate(2026, time.August, day) }

	seed(t, s, infer.TypeExpense, 35, "餐饮", aug(10))
	seed(t, s, infer.TypeExpense, 25, "餐饮", aug(11))
	seed(t, s, infer.TypeExpense, 40, "交通", aug(12))
	// Income must not leak into the expense breakdown.
	seed(t, s, infer.TypeIncome, 8000, "工资", aug(1))

	got, err := ByCategory(s, store.DefaultUserID, infer.TypeExpense, 2026, time.August)
	if err != nil {
		t.Fatalf("ByCategory() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d categories, want 2", len(got))
	}

	byName := make(map[string]CategoryBreakdown)
	for _, b := range got {
		byName[b.Category] = b
	}

	food := byName["餐饮"]
	if food.Amount != 60 || food.Count != 2 || food.Percentage != 60.0 {
		t.Errorf("餐饮 breakdown = %+v", food)
	}
	transport := byName["交通"]
	if transport.Amount != 40 || transport.Count != 1 || transport.Percentage != 40.0 {
		t.Errorf("交通 breakdown = %+v", transport)
	}
}

func TestByCategoryPercentageRounding(t *testing.T) {
	s := openTestStore(t)
	aug := func(day int) store.Date { return store.NewDate(2026, time.August, day) }

	// 1/3 and 2/3 of the total: 33.3 and 66.7 after rounding.
	seed(t, s, infer.TypeExpense, 10, "餐饮", aug(1))
	seed(t, s, infer.TypeExpense, 20, "交通", aug(2))

	got, err := ByCategory(s, store.DefaultUserID, infer.TypeExpense, 2026, time.August)
	if err != nil {
		t.Fatalf("ByCategory() error: %v", err)
	}
	byName := make(map[string]float64)
	for _, b := range got {
		byName[b.Category] = b.Percentage
	}
	if byName["餐饮"] != 33.3 {
		t.Errorf("餐饮 percentage = %v, want 33.3", byName["餐饮"])
	}
	if byName["交通"] != 66.7 {
		t.Errorf("交通 percentage = %v, want 66.7", byName["交通"])
	}
}

func TestByCategoryEmpty(t *testing.T) {
	s := openTestStore(t)

	got, err := ByCategory(s, store.DefaultUserID, infer.TypeExpense, 2026, time.August)
	if err != nil {
		t.Fatalf("ByCategory() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ByCategory() on empty store = %+v", got)
	}
}

func TestTrend(t *testing.T) {
	s := openTestStore(t)

	today := store.DateOf(time.Now())
	yesterday := store.DateOf(today.AddDate(0, 0, -1))

	seed(t, s, infer.TypeExpense, 35, "餐饮", today)
	seed(t, s, infer.TypeExpense, 12.5, "交通", today)
	seed(t, s, infer.TypeIncome, 100, "工资", yesterday)
	// Outside the window.
	seed(t, s, infer.TypeExpense, 999, "购物", store.DateOf(today.AddDate(0, 0, -10)))

	const days = 7
	got, err := Trend(s, store.DefaultUserID, days)
	if err != nil {
		t.Fatalf("Trend() error: %v", err)
	}

	if len(got.Dates) != days || len(got.Expense) != days || len(got.Income) != days {
		t.Fatalf("series lengths = %d/%d/%d, want %d each",
			len(got.Dates), len(got.Expense), len(got.Income), days)
	}
	if got.Dates[days-1] != today.Format("01/02") {
		t.Errorf("last date = %q, want today %q", got.Dates[days-1], today.Format("01/02"))
	}
	if got.Expense[days-1] != 47.5 {
		t.Errorf("today's expense = %v, want 47.5", got.Expense[days-1])
	}
	if got.Income[days-2] != 100 {
		t.Errorf("yesterday's income = %v, want 100", got.Income[days-2])
	}
	// Days with no transactions are zero-filled, not missing.
	if got.Expense[0] != 0 || got.Income[0] != 0 {
		t.Errorf("oldest day = %v/%v, want 0/0", got.Expense[0], got.Income[0])
	}
}

func TestForUser(t *testing.T) {
	s := openTestStore(t)
	u, err := s.EnsureDefaultUser()
	if err != nil {
		t.Fatalf("EnsureDefaultUser() error: %v", err)
	}

	seed(t, s, infer.TypeIncome, 8000, "工资", store.NewDate(2026, time.August, 1))
	seed(t, s, infer.TypeExpense, 35, "餐饮", store.NewDate(2026, time.August, 10))
	seed(t, s, infer.TypeExpense, 30, "交通", store.NewDate(2026, time.August, 20))

	got, err := ForUser(s, u)
	if err != nil {
		t.Fatalf("ForUser() error: %v", err)
	}
	if got.TotalRecords != 3 {
		t.Errorf("total records = %d, want 3", got.TotalRecords)
	}
	if got.TotalIncome != 8000 || got.TotalExpense != 65 {
		t.Errorf("totals = %v/%v, want 8000/65", got.TotalIncome, got.TotalExpense)
	}
	if got.Days != 0 {
		t.Errorf("days since signup = %d, want 0 for a fresh user", got.Days)
	}
}
