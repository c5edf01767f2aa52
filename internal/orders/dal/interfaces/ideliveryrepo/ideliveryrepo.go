package ideliveryrepo

import (
	"context"

	"github.com/corray333/bookstore/internal/orders/service/models/delivery"
)

// IDeliveryRepository defines the interface for delivery storage operations.
type IDeliveryRepository interface {
	Insert(ctx context.Context, d delivery.Delivery) (delivery.Delivery, error)
	GetByPurchaseID(ctx context.Context, purchaseID int64) (*delivery.Delivery, error)
}
