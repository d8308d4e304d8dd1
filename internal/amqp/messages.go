package amqp

import (
	"encoding/json"
	"time"
)

// RemarkRequestMessage asks the worker to generate commentary for one
// transaction. It carries only the id, the worker fetches the full row.
type RemarkRequestMessage struct {
	TxnID     string    `json:"txn_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRemarkRequestMessage creates a request message for the given transaction
func NewRemarkRequestMessage(txnID string) *RemarkRequestMessage {
	return &RemarkRequestMessage{
		TxnID:     txnID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RemarkRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RemarkRequestMessageFromJSON creates a message from JSON bytes
func RemarkRequestMessageFromJSON(data []byte) (*RemarkRequestMessage, error) {
	var msg RemarkRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
