// Package remark generates the short comment attached to each transaction.
package remark

import (
	"context"
	"fmt"

	"spendy/internal/core"
)

// Generator produces a one-line comment for a transaction.
type Generator interface {
	Generate(ctx context.Context, txn core.Transaction) (string, error)
}

// Static returns canned comments keyed by spending direction. It is the
// fallback when no model credentials are configured, and the test double.
type Static struct{}

func (Static) Generate(_ context.Context, txn core.Transaction) (string, error) {
	switch {
	case txn.Amount < 0:
		return fmt.Sprintf("Another %s spent on %s.", core.FormatMoney(txn.Currency, -txn.Amount), txn.Category), nil
	case txn.Amount > 0:
		return "Money coming in for once.", nil
	default:
		return "A transaction of exactly nothing.", nil
	}
}
