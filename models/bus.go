package models

import "time"

// IdempotencyRecord stores the first response for an Idempotency-Key.
type IdempotencyRecord struct {
	Key         string                 `bson:"key"`
	Method      string                 `bson:"method"`
	Path        string                 `bson:"path"`
	UserID      string                 `bson:"user_id"`
	RequestHash string                 `bson:"request_hash"`
	Response    map[string]interface{} `bson:"response,omitempty"`
	CreatedAt   time.Time              `bson:"created_at"`
	ExpiresAt   time.Time              `bson:"expires_at"`
}

const (
	OrderPlaced        = "order.placed"
	OrderStatusChanged = "order.status"
	ProductChanged     = "product.changed"
)

// BusEvent is published on the message bus after a write commits.
type BusEvent struct {
	Type      string    `json:"type"`
	EntityID  string    `json:"entityId"`
	UserID    string    `json:"userId,omitempty"`
	Status    string    `json:"status,omitempty"`
	Total     float64   `json:"total,omitempty"`
	ItemCount int       `json:"itemCount,omitempty"`
	At        time.Time `json:"at"`
}
