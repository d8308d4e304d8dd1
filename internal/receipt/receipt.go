// Package receipt turns a photographed receipt into transactions. A vision
// model extracts the merchant, payment method and line items; the caller then
// assigns items to category groups and each non-empty group becomes one
// expense transaction.
package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"spendy/internal/core"
)

// LineItem is one extracted receipt line.
type LineItem struct {
	Item     string  `json:"item"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"`
}

// ParsedReceipt is the model's structured view of a receipt image.
type ParsedReceipt struct {
	Merchant      string     `json:"merchant"`
	PaymentMethod string     `json:"payment_method"`
	Total         float64    `json:"total"`
	Items         []LineItem `json:"items"`
}

// Group is a set of selected items bound to one spending category.
type Group struct {
	Category string     `json:"category"`
	Items    []LineItem `json:"items"`
}

// NormalizePaymentMethod maps the model's uppercase method tokens to the
// display forms the rest of the app uses. Unknown non-empty values pass
// through, an empty value defaults to Card.
func NormalizePaymentMethod(apiMethod string) string {
	switch strings.ToUpper(strings.TrimSpace(apiMethod)) {
	case "CARD":
		return "Card"
	case "CASH":
		return "Cash"
	case "TRANSFER":
		return "Transfer"
	}
	if apiMethod == "" {
		return "Card"
	}
	return apiMethod
}

const maxNoteItems = 8

// ToTransactions builds one expense transaction per non-empty group. Amounts
// are negative, the note lists the first few items, and empty groups are
// skipped. A group without a category is an error so nothing is silently
// miscategorized.
func ToTransactions(rcpt ParsedReceipt, groups []Group, currency string, occurredAt time.Time) ([]core.Transaction, error) {
	method := NormalizePaymentMethod(rcpt.PaymentMethod)

	var out []core.Transaction
	for _, g := range groups {
		var total float64
		var kept []LineItem
		for _, it := range g.Items {
			if it.Quantity <= 0 {
				continue
			}
			total += it.Price * float64(it.Quantity)
			kept = append(kept, it)
		}
		if total <= 0 {
			continue
		}
		if g.Category == "" {
			return nil, fmt.Errorf("group with %d items has no category", len(kept))
		}

		out = append(out, core.Transaction{
			ID:         uuid.NewString(),
			Amount:     -core.SafeRound(total),
			Currency:   currency,
			Category:   g.Category,
			Method:     method,
			OccurredAt: occurredAt,
			Merchant:   rcpt.Merchant,
			Note:       buildNote(kept),
		})
	}
	return out, nil
}

func buildNote(items []LineItem) string {
	if len(items) == 0 {
		return "Receipt split"
	}
	parts := make([]string, 0, maxNoteItems)
	for i, it := range items {
		if i == maxNoteItems {
			break
		}
		parts = append(parts, fmt.Sprintf("%s x%d", it.Item, it.Quantity))
	}
	note := strings.Join(parts, ", ")
	if len(items) > maxNoteItems {
		note += "…"
	}
	if note == "" {
		return "Receipt split"
	}
	return note
}
