package core

import (
	"math"
	"testing"
	"time"
)

func TestBuildBudgetReportScenario(t *testing.T) {
	budgets := []Budget{
		{Category: "Drinks", MonthKey: 202601, Amount: 100},
	}
	report := BuildBudgetReport(budgets, sampleJanuary(), date(2026, time.January, 1), DefaultCategories, "SGD")

	if len(report.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(report.Rows))
	}
	row := report.Rows[0]
	if math.Abs(row.Spent-35.20) > 1e-9 {
		t.Fatalf("spent: expected 35.20, got %v", row.Spent)
	}
	if math.Abs(row.Remaining()-64.80) > 1e-9 {
		t.Fatalf("remaining: expected 64.80, got %v", row.Remaining())
	}
	if row.Over() {
		t.Fatal("should not be over limit")
	}
	if math.Abs(row.Progress()-0.352) > 1e-9 {
		t.Fatalf("progress: expected 0.352, got %v", row.Progress())
	}
}

func TestBudgetedCategoryOverLimit(t *testing.T) {
	row := BudgetedCategory{Category: "Drinks", Limit: 100, Spent: 150}
	if row.Remaining() != 0 {
		t.Fatalf("remaining should clamp to 0, got %v", row.Remaining())
	}
	if !row.Over() {
		t.Fatal("expected over-limit")
	}
	if row.Progress() != 1.0 {
		t.Fatalf("progress should clamp to 1, got %v", row.Progress())
	}
}

func TestBudgetedCategoryZeroLimit(t *testing.T) {
	row := BudgetedCategory{Category: "Drinks", Limit: 0, Spent: 50}
	if row.Progress() != 0 {
		t.Fatalf("zero limit must not divide, got %v", row.Progress())
	}
	if !row.Over() {
		t.Fatal("any spend against a zero limit is over")
	}
}

func TestBuildBudgetReportMonthWindow(t *testing.T) {
	budgets := []Budget{
		{Category: "Food", MonthKey: 202601, Amount: 200},
		{Category: "Food", MonthKey: 202602, Amount: 300}, // other month, excluded
	}
	txns := []Transaction{
		{ID: "a", Amount: -40, Currency: "SGD", Category: "Food", OccurredAt: time.Date(2026, time.January, 31, 23, 59, 59, 0, time.UTC)},
		{ID: "b", Amount: -60, Currency: "SGD", Category: "Food", OccurredAt: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)}, // half-open: out
		{ID: "c", Amount: -10, Currency: "SGD", Category: "Food", OccurredAt: time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC)},
	}
	report := BuildBudgetReport(budgets, txns, date(2026, time.January, 15), DefaultCategories, "SGD")

	if len(report.Rows) != 1 {
		t.Fatalf("expected only January's budget, got %d rows", len(report.Rows))
	}
	if report.Rows[0].Spent != 40 {
		t.Fatalf("spent should count only [start, nextMonth): got %v", report.Rows[0].Spent)
	}
	if report.TotalBudget != 200 || report.TotalSpent != 40 {
		t.Fatalf("totals: got budget=%v spent=%v", report.TotalBudget, report.TotalSpent)
	}
}

func TestBuildBudgetReportNotBudgeted(t *testing.T) {
	budgets := []Budget{
		{Category: "Drinks", MonthKey: 202601, Amount: 100},
		{Category: "Shopping", MonthKey: 202601, Amount: 200},
	}
	report := BuildBudgetReport(budgets, nil, date(2026, time.January, 1), DefaultCategories, "SGD")

	seen := make(map[string]bool)
	for _, name := range report.NotBudgeted {
		seen[name] = true
	}
	if seen["Drinks"] || seen["Shopping"] {
		t.Fatalf("budgeted categories leaked into NotBudgeted: %v", report.NotBudgeted)
	}
	if !seen["Food"] || !seen["Other"] {
		t.Fatalf("expected remaining defaults in NotBudgeted, got %v", report.NotBudgeted)
	}
	if len(report.NotBudgeted) != len(DefaultCategories)-2 {
		t.Fatalf("expected %d entries, got %d", len(DefaultCategories)-2, len(report.NotBudgeted))
	}
}

func TestBuildBudgetReportDanglingCategory(t *testing.T) {
	// A budget for a deleted category still yields a row.
	budgets := []Budget{
		{Category: "Ghosts", MonthKey: 202601, Amount: 50},
	}
	report := BuildBudgetReport(budgets, nil, date(2026, time.January, 1), DefaultCategories, "SGD")
	if len(report.Rows) != 1 || report.Rows[0].Category != "Ghosts" {
		t.Fatalf("dangling budget should still appear: %+v", report.Rows)
	}
}

func TestBuildBudgetReportEmpty(t *testing.T) {
	report := BuildBudgetReport(nil, nil, date(2026, time.January, 1), nil, "SGD")
	if len(report.Rows) != 0 || report.TotalBudget != 0 || report.TotalSpent != 0 {
		t.Fatalf("empty inputs should produce an empty report: %+v", report)
	}
	if report.Currency != "SGD" {
		t.Fatalf("expected default currency, got %q", report.Currency)
	}
}
