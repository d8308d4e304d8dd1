package receipt

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestNormalizePaymentMethod(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"CARD", "Card"},
		{"card", "Card"},
		{" cash ", "Cash"},
		{"TRANSFER", "Transfer"},
		{"", "Card"},
		{"PayNow", "PayNow"},
	}
	for _, tc := range cases {
		if got := NormalizePaymentMethod(tc.in); got != tc.want {
			t.Errorf("NormalizePaymentMethod(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func sampleReceipt() ParsedReceipt {
	return ParsedReceipt{
		Merchant:      "NTUC FAIRPRICE BISHAN A",
		PaymentMethod: "CARD",
		Total:         37.70,
		Items: []LineItem{
			{Item: "A BUTTER UNSALTD227G", Price: 4.90, Quantity: 2, Total: 9.80},
			{Item: "CHEF LG ONION YELL", Price: 1.40, Quantity: 1, Total: 1.40},
			{Item: "PAULS FRESH MILK 1L", Price: 3.45, Quantity: 2, Total: 6.90},
		},
	}
}

func TestToTransactionsSingleGroup(t *testing.T) {
	rcpt := sampleReceipt()
	when := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	txns, err := ToTransactions(rcpt, []Group{
		{Category: "Groceries", Items: rcpt.Items},
	}, "SGD", when)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}

	txn := txns[0]
	if txn.ID == "" {
		t.Fatal("expected generated id")
	}
	if math.Abs(txn.Amount-(-18.10)) > 1e-9 {
		t.Fatalf("expected amount -18.10, got %v", txn.Amount)
	}
	if txn.Category != "Groceries" || txn.Method != "Card" || txn.Merchant != rcpt.Merchant {
		t.Fatalf("unexpected transaction fields: %+v", txn)
	}
	if !strings.Contains(txn.Note, "A BUTTER UNSALTD227G x2") {
		t.Fatalf("expected note to list items, got %q", txn.Note)
	}
	if !txn.OccurredAt.Equal(when) {
		t.Fatalf("expected occurredAt %v, got %v", when, txn.OccurredAt)
	}
}

func TestToTransactionsSplitGroups(t *testing.T) {
	rcpt := sampleReceipt()

	txns, err := ToTransactions(rcpt, []Group{
		{Category: "Groceries", Items: rcpt.Items[:2]},
		{Category: "Drinks", Items: rcpt.Items[2:]},
	}, "SGD", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}

	var sum float64
	for _, txn := range txns {
		sum += txn.Amount
	}
	if math.Abs(sum-(-18.10)) > 1e-9 {
		t.Fatalf("expected split to preserve total, got %v", sum)
	}
}

func TestToTransactionsSkipsEmptyGroups(t *testing.T) {
	rcpt := sampleReceipt()

	txns, err := ToTransactions(rcpt, []Group{
		{Category: "Groceries", Items: rcpt.Items},
		{Category: "Other"}, // no items
		{Category: "Shopping", Items: []LineItem{{Item: "VOID", Price: 5, Quantity: 0}}},
	}, "SGD", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("expected empty groups to be skipped, got %d transactions", len(txns))
	}
}

func TestToTransactionsMissingCategory(t *testing.T) {
	rcpt := sampleReceipt()

	_, err := ToTransactions(rcpt, []Group{
		{Category: "", Items: rcpt.Items},
	}, "SGD", time.Now())
	if err == nil {
		t.Fatal("expected error for non-empty group without category")
	}
}

func TestBuildNoteTruncation(t *testing.T) {
	items := make([]LineItem, 10)
	for i := range items {
		items[i] = LineItem{Item: "ITEM", Price: 1, Quantity: 1}
	}
	note := buildNote(items)
	if !strings.HasSuffix(note, "…") {
		t.Fatalf("expected truncated note to end with ellipsis, got %q", note)
	}
	if strings.Count(note, "ITEM") != maxNoteItems {
		t.Fatalf("expected %d items in note, got %d", maxNoteItems, strings.Count(note, "ITEM"))
	}
}

func TestCleanModelJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"raw", `{"merchant":"A"}`, `{"merchant":"A"}`},
		{"fenced", "```json\n{\"merchant\":\"A\"}\n```", `{"merchant":"A"}`},
		{"bare fence", "```\n{\"merchant\":\"A\"}\n```", `{"merchant":"A"}`},
		{"surrounding text", "Here you go:\n{\"merchant\":\"A\"}\nEnjoy", `{"merchant":"A"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cleanModelJSON(tc.in); got != tc.want {
				t.Fatalf("cleanModelJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
