package models

import "time"

// Event types carried on the store order channel.
const (
	EventTypeStoreOrder = "STORE_ORDER"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// StoreOrderEvent is published by the marketplace when a store receives a
// new order. The payload is treated as opaque: the console only uses the
// store ID to decide whether to refetch, so duplicate or out-of-order
// delivery is harmless.
type StoreOrderEvent struct {
	BaseEvent
	StoreID string `json:"store_id"`
	OrderID string `json:"order_id,omitempty"`
}
