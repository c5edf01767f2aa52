package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/bookstore/internal/orders/dal/db"
	"github.com/corray333/bookstore/internal/orders/service/models/payment"
	"github.com/jackc/pgx/v5"
)

// PaymentRepository implements the payment repository for PostgreSQL.
type PaymentRepository struct {
	conn db.DBTX
}

// NewPaymentRepository creates a new payment repository.
func NewPaymentRepository(conn db.DBTX) *PaymentRepository {
	return &PaymentRepository{
		conn: conn,
	}
}

// Insert adds a new payment and returns it with the assigned id and timestamp.
func (r *PaymentRepository) Insert(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	query, args, err := sq.Insert("payments").
		Columns("purchase_id", "amount", "payment_method", "payment_status").
		Values(p.PurchaseID, p.Amount, p.PaymentMethod, p.PaymentStatus).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return payment.Payment{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		return payment.Payment{}, fmt.Errorf("failed to insert payment: %w", err)
	}

	return p, nil
}

// GetByPurchaseID returns the first payment for a purchase, or nil when absent.
func (r *PaymentRepository) GetByPurchaseID(ctx context.Context, purchaseID int64) (*payment.Payment, error) {
	query, args, err := sq.Select("id", "purchase_id", "amount", "payment_method", "payment_status", "created_at").
		From("payments").
		Where(sq.Eq{"purchase_id": purchaseID}).
		OrderBy("id").
		Limit(1).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var p payment.Payment
	err = r.conn.QueryRow(ctx, query, args...).
		Scan(&p.ID, &p.PurchaseID, &p.Amount, &p.PaymentMethod, &p.PaymentStatus, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query payment: %w", err)
	}

	return &p, nil
}
