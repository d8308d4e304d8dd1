package amqp

import (
	"testing"
	"time"
)

func TestRemarkRequestMessageRoundTrip(t *testing.T) {
	msg := NewRemarkRequestMessage("txn-123")

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := RemarkRequestMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.TxnID != "txn-123" {
		t.Fatalf("expected txn-123, got %s", got.TxnID)
	}
	if got.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}
}

func TestNewRemarkRequestMessageTimestamp(t *testing.T) {
	before := time.Now()
	msg := NewRemarkRequestMessage("x")
	after := time.Now()

	if msg.Timestamp.Before(before) || msg.Timestamp.After(after) {
		t.Fatalf("timestamp %v outside [%v, %v]", msg.Timestamp, before, after)
	}
}

func TestRemarkRequestMessageFromJSONInvalid(t *testing.T) {
	if _, err := RemarkRequestMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
