package delivery

import "time"

// StatusInTransit is the only delivery status ever written at dispatch time.
const StatusInTransit = "In Transit"

// Delivery represents the shipment of one paid purchase.
type Delivery struct {
	ID             int64     `json:"id"`
	PurchaseID     int64     `json:"purchase_id"`
	ProviderID     int64     `json:"provider_id"`
	Address        string    `json:"address"`
	DeliveryStatus string    `json:"delivery_status"`
	CreatedAt      time.Time `json:"created_at"`
}
