package payment

import "time"

// StatusCompleted is the only payment status ever written: there is no real
// gateway behind payment processing, every payment succeeds deterministically.
const StatusCompleted = "Completed"

// Payment represents the settlement of one purchase.
type Payment struct {
	ID            int64     `json:"id"`
	PurchaseID    int64     `json:"purchase_id"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}
