package auditlog

import "time"

// PurchaseAuditLog is one immutable row of the purchase event history. The
// event id carries end-to-end idempotency: replayed deliveries land on the
// same row and are dropped.
type PurchaseAuditLog struct {
	ID         int64
	EventID    string
	EventType  string
	PurchaseID int64
	UserID     int64
	BookID     int64
	Quantity   int
	TotalPrice float64
	Status     string
	OccurredAt time.Time
	RecordedAt time.Time
}
