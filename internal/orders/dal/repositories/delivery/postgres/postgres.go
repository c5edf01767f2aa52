package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/bookstore/internal/orders/dal/db"
	"github.com/corray333/bookstore/internal/orders/service/models/delivery"
	"github.com/jackc/pgx/v5"
)

// DeliveryRepository implements the delivery repository for PostgreSQL.
type DeliveryRepository struct {
	conn db.DBTX
}

// NewDeliveryRepository creates a new delivery repository.
func NewDeliveryRepository(conn db.DBTX) *DeliveryRepository {
	return &DeliveryRepository{
		conn: conn,
	}
}

// Insert adds a new delivery and returns it with the assigned id and timestamp.
func (r *DeliveryRepository) Insert(ctx context.Context, d delivery.Delivery) (delivery.Delivery, error) {
	query, args, err := sq.Insert("deliveries").
		Columns("purchase_id", "provider_id", "address", "delivery_status").
		Values(d.PurchaseID, d.ProviderID, d.Address, d.DeliveryStatus).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return delivery.Delivery{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&d.ID, &d.CreatedAt); err != nil {
		return delivery.Delivery{}, fmt.Errorf("failed to insert delivery: %w", err)
	}

	return d, nil
}

// GetByPurchaseID returns the first delivery for a purchase, or nil when absent.
func (r *DeliveryRepository) GetByPurchaseID(ctx context.Context, purchaseID int64) (*delivery.Delivery, error) {
	query, args, err := sq.Select("id", "purchase_id", "provider_id", "address", "delivery_status", "created_at").
		From("deliveries").
		Where(sq.Eq{"purchase_id": purchaseID}).
		OrderBy("id").
		Limit(1).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var d delivery.Delivery
	err = r.conn.QueryRow(ctx, query, args...).
		Scan(&d.ID, &d.PurchaseID, &d.ProviderID, &d.Address, &d.DeliveryStatus, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query delivery: %w", err)
	}

	return &d, nil
}
