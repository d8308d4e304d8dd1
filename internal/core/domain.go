package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

type (
	// Transaction is a single signed monetary event. Amount < 0 is money
	// leaving (expense), Amount > 0 is money arriving (income).
	Transaction struct {
		ID         string
		Amount     float64
		Currency   string
		Category   string
		Method     string
		OccurredAt time.Time
		Merchant   string // optional
		Note       string // optional
		AIComment  string // optional, filled in asynchronously
	}

	// Category is a named bucket with display metadata. Name is the primary
	// key; transactions and budgets reference it by name, so renaming is not
	// supported.
	Category struct {
		Name     string
		Icon     string
		ColorKey string
	}

	// Budget is a per-category spending limit for one month. Spent is never
	// stored here; it is always derived from transactions.
	Budget struct {
		Category string
		MonthKey int
		Amount   float64
	}

	// MoneySummary holds the income/expense/net totals for a month.
	// Expense is an absolute (positive) value.
	MoneySummary struct {
		Expense float64
		Income  float64
		Total   float64
	}
)

var (
	ErrEmptyID         = errors.New("empty transaction id")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEmptyCurrency   = errors.New("empty currency")
	ErrZeroTime        = errors.New("zero timestamp")
	ErrNegativeBudget  = errors.New("budget amount must be non-negative")
	ErrInvalidMonthKey = errors.New("invalid month key")
)

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Currency) == "" {
		return ErrEmptyCurrency
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.OccurredAt.IsZero() {
		return ErrZeroTime
	}
	return nil
}

// IsExpense reports whether the transaction takes money out.
func (t Transaction) IsExpense() bool {
	return t.Amount < 0
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if math.IsNaN(b.Amount) || math.IsInf(b.Amount, 0) || b.Amount < 0 {
		return ErrNegativeBudget
	}
	if _, _, err := SplitMonthKey(b.MonthKey); err != nil {
		return err
	}
	return nil
}
