package core

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func sampleJanuary() []Transaction {
	return []Transaction{
		{ID: "t1", Amount: -35.20, Currency: "SGD", Category: "Drinks", Method: "Card", OccurredAt: date(2026, time.January, 5)},
		{ID: "t2", Amount: -96.54, Currency: "SGD", Category: "Shopping", Method: "Card", OccurredAt: date(2026, time.January, 10)},
		{ID: "t3", Amount: 2500, Currency: "SGD", Category: "Salary", Method: "Transfer", OccurredAt: date(2026, time.January, 1)},
	}
}

func TestBuildExpenseBreakdownScenario(t *testing.T) {
	got := BuildExpenseBreakdown(sampleJanuary(), date(2026, time.January, 1), "SGD")

	if math.Abs(got.ExpenseAbs-131.74) > 1e-9 {
		t.Fatalf("expenseAbs: expected 131.74, got %v", got.ExpenseAbs)
	}
	if got.Income != 2500 {
		t.Fatalf("income: expected 2500, got %v", got.Income)
	}
	if math.Abs(got.Total-2368.26) > 1e-9 {
		t.Fatalf("total: expected 2368.26, got %v", got.Total)
	}
	if got.Currency != "SGD" {
		t.Fatalf("currency: expected SGD, got %q", got.Currency)
	}
	if len(got.ByCategory) != 2 {
		t.Fatalf("expected 2 category rows, got %d", len(got.ByCategory))
	}
	if got.ByCategory[0].Category != "Shopping" || got.ByCategory[1].Category != "Drinks" {
		t.Fatalf("rows out of order: %v", got.ByCategory)
	}
	if got.ByCategory[0].AmountSigned != -got.ByCategory[0].AmountAbs {
		t.Fatalf("amountSigned should mirror amountAbs: %v", got.ByCategory[0])
	}
}

func TestBuildExpenseBreakdownPartition(t *testing.T) {
	// sum of rows must equal expenseAbs exactly, and pct must sum to 1
	got := BuildExpenseBreakdown(sampleJanuary(), date(2026, time.January, 1), "SGD")

	var sumAbs, sumPct float64
	for _, row := range got.ByCategory {
		sumAbs += row.AmountAbs
		sumPct += row.Pct
	}
	if sumAbs != got.ExpenseAbs {
		t.Fatalf("partition broken: rows sum to %v, expenseAbs %v", sumAbs, got.ExpenseAbs)
	}
	if math.Abs(sumPct-1.0) > 1e-9 {
		t.Fatalf("pct should sum to 1, got %v", sumPct)
	}
}

func TestBuildExpenseBreakdownEmpty(t *testing.T) {
	got := BuildExpenseBreakdown(nil, date(2026, time.January, 1), "SGD")
	if got.ExpenseAbs != 0 || got.Income != 0 || got.Total != 0 {
		t.Fatalf("empty input should zero totals: %+v", got)
	}
	if len(got.ByCategory) != 0 {
		t.Fatalf("empty input should produce no rows: %v", got.ByCategory)
	}
	if got.Currency != "SGD" {
		t.Fatalf("empty input should use the default currency, got %q", got.Currency)
	}
}

func TestBuildExpenseBreakdownZeroAmount(t *testing.T) {
	txns := []Transaction{
		{ID: "t1", Amount: 0, Currency: "SGD", Category: "Other", OccurredAt: date(2026, time.January, 3)},
	}
	got := BuildExpenseBreakdown(txns, date(2026, time.January, 1), "SGD")
	// zero counts as income-side, contributes nothing, must not divide by zero
	if got.ExpenseAbs != 0 || got.Income != 0 || len(got.ByCategory) != 0 {
		t.Fatalf("zero amount mishandled: %+v", got)
	}
}

func TestBuildExpenseBreakdownTieOrder(t *testing.T) {
	// equal sums keep first-occurrence order
	txns := []Transaction{
		{ID: "a", Amount: -10, Currency: "SGD", Category: "Food", OccurredAt: date(2026, time.March, 2)},
		{ID: "b", Amount: -10, Currency: "SGD", Category: "Bills", OccurredAt: date(2026, time.March, 3)},
		{ID: "c", Amount: -10, Currency: "SGD", Category: "Drinks", OccurredAt: date(2026, time.March, 4)},
	}
	got := BuildExpenseBreakdown(txns, date(2026, time.March, 1), "SGD")
	want := []string{"Food", "Bills", "Drinks"}
	for i, row := range got.ByCategory {
		if row.Category != want[i] {
			t.Fatalf("tie order broken: expected %v, got %+v", want, got.ByCategory)
		}
	}
}

func TestBuildExpenseBreakdownSortedDescending(t *testing.T) {
	txns := []Transaction{
		{ID: "a", Amount: -5, Currency: "SGD", Category: "Food", OccurredAt: date(2026, time.March, 2)},
		{ID: "b", Amount: -50, Currency: "SGD", Category: "Bills", OccurredAt: date(2026, time.March, 3)},
		{ID: "c", Amount: -20, Currency: "SGD", Category: "Drinks", OccurredAt: date(2026, time.March, 4)},
		{ID: "d", Amount: -5, Currency: "SGD", Category: "Food", OccurredAt: date(2026, time.March, 6)},
	}
	got := BuildExpenseBreakdown(txns, date(2026, time.March, 1), "SGD")
	for i := 1; i < len(got.ByCategory); i++ {
		if got.ByCategory[i-1].AmountAbs < got.ByCategory[i].AmountAbs {
			t.Fatalf("rows not descending: %+v", got.ByCategory)
		}
	}
}

func TestBuildExpenseBreakdownDoesNotMutateInput(t *testing.T) {
	txns := sampleJanuary()
	snapshot := make([]Transaction, len(txns))
	copy(snapshot, txns)

	first := BuildExpenseBreakdown(txns, date(2026, time.January, 1), "SGD")
	second := BuildExpenseBreakdown(txns, date(2026, time.January, 1), "SGD")

	if !reflect.DeepEqual(first, second) {
		t.Fatal("two calls with identical input should be deep-equal")
	}
	if !reflect.DeepEqual(txns, snapshot) {
		t.Fatal("input slice was mutated")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleJanuary(), date(2026, time.January, 1))
	if math.Abs(s.Expense-131.74) > 1e-9 || s.Income != 2500 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if math.Abs(s.Total-2368.26) > 1e-9 {
		t.Fatalf("total: expected 2368.26, got %v", s.Total)
	}

	empty := Summarize(nil, date(2026, time.January, 1))
	if empty != (MoneySummary{}) {
		t.Fatalf("empty input should be all zeros: %+v", empty)
	}
}

func TestGroupByDay(t *testing.T) {
	txns := []Transaction{
		{ID: "a", Amount: -5, Currency: "SGD", Category: "Food", OccurredAt: time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)},
		{ID: "b", Amount: -7, Currency: "SGD", Category: "Drinks", OccurredAt: time.Date(2026, time.January, 5, 18, 0, 0, 0, time.UTC)},
		{ID: "c", Amount: -9, Currency: "SGD", Category: "Bills", OccurredAt: time.Date(2026, time.January, 9, 8, 0, 0, 0, time.UTC)},
		{ID: "d", Amount: -1, Currency: "SGD", Category: "Food", OccurredAt: time.Date(2026, time.February, 1, 8, 0, 0, 0, time.UTC)},
	}
	sections := GroupByDay(txns, date(2026, time.January, 1))
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Date.Day() != 9 || sections[1].Date.Day() != 5 {
		t.Fatalf("sections should be newest-day first: %+v", sections)
	}
	day5 := sections[1]
	if len(day5.Transactions) != 2 || day5.Transactions[0].ID != "b" {
		t.Fatalf("within-day order should be newest first: %+v", day5.Transactions)
	}
}
