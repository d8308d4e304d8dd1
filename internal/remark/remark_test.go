package remark

import (
	"context"
	"strings"
	"testing"
	"time"

	"spendy/internal/core"
)

func TestStaticExpense(t *testing.T) {
	txn := core.Transaction{
		ID:         "t1",
		Amount:     -12.50,
		Currency:   "SGD",
		Category:   "Drinks",
		OccurredAt: time.Now(),
	}
	got, err := Static{}.Generate(context.Background(), txn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "S$12.50") || !strings.Contains(got, "Drinks") {
		t.Fatalf("expected remark to mention amount and category, got %q", got)
	}
}

func TestStaticIncomeAndZero(t *testing.T) {
	income := core.Transaction{Amount: 2500, Currency: "SGD"}
	got, err := Static{}.Generate(context.Background(), income)
	if err != nil || got == "" {
		t.Fatalf("expected remark for income, got %q, %v", got, err)
	}

	zero := core.Transaction{Amount: 0, Currency: "SGD"}
	got, err = Static{}.Generate(context.Background(), zero)
	if err != nil || got == "" {
		t.Fatalf("expected remark for zero amount, got %q, %v", got, err)
	}
}
