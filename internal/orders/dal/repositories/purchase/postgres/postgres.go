package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/bookstore/internal/orders/dal/db"
	"github.com/corray333/bookstore/internal/orders/service/models/purchase"
	"github.com/jackc/pgx/v5"
)

// PurchaseRepository implements the purchase repository for PostgreSQL.
type PurchaseRepository struct {
	conn db.DBTX
}

// NewPurchaseRepository creates a new purchase repository.
func NewPurchaseRepository(conn db.DBTX) *PurchaseRepository {
	return &PurchaseRepository{
		conn: conn,
	}
}

var columns = []string{"id", "user_id", "book_id", "quantity", "total_price", "status", "created_at"}

// Insert adds a new purchase and returns it with the assigned id and timestamp.
func (r *PurchaseRepository) Insert(ctx context.Context, p purchase.Purchase) (purchase.Purchase, error) {
	query, args, err := sq.Insert("purchases").
		Columns("user_id", "book_id", "quantity", "total_price", "status").
		Values(p.UserID, p.BookID, p.Quantity, p.TotalPrice, string(p.Status)).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return purchase.Purchase{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		return purchase.Purchase{}, fmt.Errorf("failed to insert purchase: %w", err)
	}

	return p, nil
}

// GetByID returns the purchase with the given id, or nil when absent.
func (r *PurchaseRepository) GetByID(ctx context.Context, id int64) (*purchase.Purchase, error) {
	query, args, err := sq.Select(columns...).
		From("purchases").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var p purchase.Purchase
	err = r.conn.QueryRow(ctx, query, args...).
		Scan(&p.ID, &p.UserID, &p.BookID, &p.Quantity, &p.TotalPrice, &p.Status, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase: %w", err)
	}

	return &p, nil
}

// ListByUser returns every purchase made by one user.
func (r *PurchaseRepository) ListByUser(ctx context.Context, userID int64) ([]purchase.Purchase, error) {
	query, args, err := sq.Select(columns...).
		From("purchases").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	var purchases []purchase.Purchase
	for rows.Next() {
		var p purchase.Purchase
		err := rows.Scan(&p.ID, &p.UserID, &p.BookID, &p.Quantity, &p.TotalPrice, &p.Status, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchases: %w", err)
	}

	return purchases, nil
}

// UpdateStatus moves the purchase to the given status.
func (r *PurchaseRepository) UpdateStatus(ctx context.Context, id int64, status purchase.Status) error {
	query, args, err := sq.Update("purchases").
		Set("status", string(status)).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update purchase status: %w", err)
	}

	return nil
}
