package ipaymentrepo

import (
	"context"

	"github.com/corray333/bookstore/internal/orders/service/models/payment"
)

// IPaymentRepository defines the interface for payment storage operations.
type IPaymentRepository interface {
	Insert(ctx context.Context, p payment.Payment) (payment.Payment, error)
	GetByPurchaseID(ctx context.Context, purchaseID int64) (*payment.Payment, error)
}
