package event

import "time"

const (
	TypePurchaseCreated = "purchase.created"
	TypePurchasePaid    = "purchase.paid"
	TypePurchaseShipped = "purchase.shipped"
)

// PurchaseEvent is the envelope published for every purchase state change.
type PurchaseEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	PurchaseID int64     `json:"purchase_id"`
	UserID     int64     `json:"user_id"`
	BookID     int64     `json:"book_id"`
	Quantity   int       `json:"quantity"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
}
