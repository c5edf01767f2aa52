package ipurchaserepo

import (
	"context"

	"github.com/corray333/bookstore/internal/orders/service/models/purchase"
)

// IPurchaseRepository defines the interface for purchase storage operations.
type IPurchaseRepository interface {
	Insert(ctx context.Context, p purchase.Purchase) (purchase.Purchase, error)
	GetByID(ctx context.Context, id int64) (*purchase.Purchase, error)
	ListByUser(ctx context.Context, userID int64) ([]purchase.Purchase, error)
	UpdateStatus(ctx context.Context, id int64, status purchase.Status) error
}
