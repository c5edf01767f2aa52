package iproviderrepo

import (
	"context"

	"github.com/corray333/bookstore/internal/orders/service/models/provider"
)

// IProviderRepository defines the interface for delivery provider reference data.
type IProviderRepository interface {
	List(ctx context.Context) ([]provider.DeliveryProvider, error)
	Count(ctx context.Context) (int64, error)
	BulkInsert(ctx context.Context, providers []provider.DeliveryProvider) error
}
