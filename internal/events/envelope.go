// Package events publishes order lifecycle events. Delivery is best effort:
// a failed publish is logged and never fails the order operation that
// produced it.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	OrderCreated       = "OrderCreated"
	OrderUpdated       = "OrderUpdated"
	OrderStatusChanged = "OrderStatusChanged"
	OrderDeleted       = "OrderDeleted"
)

const envelopeVersion = 1

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type ItemQty struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

// OrderPayload is shared by every order event. Items is empty for status
// changes and deletes of orders whose stock was not touched.
type OrderPayload struct {
	OrderID       string    `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	Status        string    `json:"status"`
	PreviousState string    `json:"previous_status,omitempty"`
	TotalAmount   string    `json:"total_amount"`
	Items         []ItemQty `json:"items,omitempty"`
	StockRestored bool      `json:"stock_restored,omitempty"`
}

func NewEnvelope(eventType, producer, correlationID string, payload any, at time.Time) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  envelopeVersion,
		OccurredAt:    at.UTC(),
		Producer:      producer,
		CorrelationID: correlationID,
		Payload:       raw,
	}, nil
}

func UnwrapPayload[T any](payload json.RawMessage) (T, error) {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}
