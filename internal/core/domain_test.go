package core

import (
	"errors"
	"math"
	"testing"
	"time"
)

func validTxn() Transaction {
	return Transaction{
		ID:         "txn_1",
		Amount:     -12.50,
		Currency:   "SGD",
		Category:   "Food",
		Method:     "Card",
		OccurredAt: date(2026, time.January, 5),
	}
}

func TestTransactionValidate(t *testing.T) {
	if err := validTxn().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		mutate func(*Transaction)
		want   error
	}{
		{func(tx *Transaction) { tx.ID = " " }, ErrEmptyID},
		{func(tx *Transaction) { tx.Amount = math.NaN() }, ErrInvalidAmount},
		{func(tx *Transaction) { tx.Amount = math.Inf(1) }, ErrInvalidAmount},
		{func(tx *Transaction) { tx.Currency = "" }, ErrEmptyCurrency},
		{func(tx *Transaction) { tx.Category = "" }, ErrEmptyCategory},
		{func(tx *Transaction) { tx.OccurredAt = time.Time{} }, ErrZeroTime},
	}
	for i, tc := range cases {
		tx := validTxn()
		tc.mutate(&tx)
		if err := tx.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, err)
		}
	}

	// zero amount is unusual but must not be rejected (aggregation tolerates it)
	tx := validTxn()
	tx.Amount = 0
	if err := tx.Validate(); err != nil {
		t.Fatalf("zero amount should validate: %v", err)
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{Category: "Drinks", MonthKey: 202601, Amount: 100}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Budget{
		{Category: "", MonthKey: 202601, Amount: 100},
		{Category: "Drinks", MonthKey: 202613, Amount: 100},
		{Category: "Drinks", MonthKey: 202601, Amount: -1},
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}

	zero := Budget{Category: "Drinks", MonthKey: 202601, Amount: 0}
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero limit is allowed: %v", err)
	}
}

func TestCategoryMeta(t *testing.T) {
	if got := CategoryMeta("Drinks"); got.Icon != "wine" || got.ColorKey != "peach" {
		t.Fatalf("unexpected meta for Drinks: %+v", got)
	}
	// unknown names fall back to Other, as a normal case
	if got := CategoryMeta("Skydiving"); got.Name != "Other" {
		t.Fatalf("unknown category should resolve to Other, got %+v", got)
	}
}

func TestIsExpense(t *testing.T) {
	if !(Transaction{Amount: -1}).IsExpense() {
		t.Fatal("negative amount is an expense")
	}
	if (Transaction{Amount: 1}).IsExpense() || (Transaction{Amount: 0}).IsExpense() {
		t.Fatal("non-negative amounts are not expenses")
	}
}
