package amqp

import (
	"testing"
	"time"
)

func TestNewReceiptDispatchMessage(t *testing.T) {
	msg := NewReceiptDispatchMessage("3f1c2d44-9d0a-4a8e-b1f2-1c6c8a1e0a11")

	if msg.ReceiptID != "3f1c2d44-9d0a-4a8e-b1f2-1c6c8a1e0a11" {
		t.Errorf("ReceiptID = %v, want the provided id", msg.ReceiptID)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestReceiptDispatchMessage_JSON(t *testing.T) {
	timestamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	msg := &ReceiptDispatchMessage{
		ReceiptID: "abc-123",
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := ReceiptDispatchMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("ReceiptDispatchMessageFromJSON() error = %v", err)
	}

	if parsed.ReceiptID != msg.ReceiptID {
		t.Errorf("Parsed ReceiptID = %v, want %v", parsed.ReceiptID, msg.ReceiptID)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestReceiptDispatchMessage_InvalidJSON(t *testing.T) {
	if _, err := ReceiptDispatchMessageFromJSON([]byte(`{"receipt_id": 42}`)); err == nil {
		t.Error("ReceiptDispatchMessageFromJSON() should fail with invalid JSON")
	}
}

func TestReceiptDispatchMessage_EmptyReceiptID(t *testing.T) {
	if _, err := ReceiptDispatchMessageFromJSON([]byte(`{"receipt_id": ""}`)); err == nil {
		t.Error("ReceiptDispatchMessageFromJSON() should reject an empty receipt id")
	}
}
