package amqp

import (
	"encoding/json"
	"time"
)

// ReceiptDispatchMessage asks the worker to deliver one receipt. It
// carries only the receipt ID; the worker loads the full receipt from
// the database so a stale queue never sends stale amounts.
type ReceiptDispatchMessage struct {
	ReceiptID string    `json:"receipt_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReceiptDispatchMessage(receiptID string) *ReceiptDispatchMessage {
	return &ReceiptDispatchMessage{
		ReceiptID: receiptID,
		Timestamp: time.Now(),
	}
}

func (m *ReceiptDispatchMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReceiptDispatchMessageFromJSON(data []byte) (*ReceiptDispatchMessage, error) {
	var msg ReceiptDispatchMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ReceiptID == "" {
		return nil, errEmptyReceiptID
	}
	return &msg, nil
}
