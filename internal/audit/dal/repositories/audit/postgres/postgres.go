package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/bookstore/internal/audit/service/models/auditlog"
	"github.com/corray333/bookstore/internal/postgres"
)

// AuditRepository implements the audit repository for PostgreSQL.
type AuditRepository struct {
	pgClient *postgres.Client
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(pgClient *postgres.Client) *AuditRepository {
	return &AuditRepository{
		pgClient: pgClient,
	}
}

// SaveAuditLogs bulk inserts audit rows. Rows whose event id was already
// recorded are skipped, which makes redelivery harmless.
func (r *AuditRepository) SaveAuditLogs(
	ctx context.Context,
	logs []auditlog.PurchaseAuditLog,
) error {
	if len(logs) == 0 {
		return nil
	}

	builder := sq.Insert("purchase_audit_log").
		Columns(
			"event_id",
			"event_type",
			"purchase_id",
			"user_id",
			"book_id",
			"quantity",
			"total_price",
			"status",
			"occurred_at",
			"recorded_at",
		).
		PlaceholderFormat(sq.Dollar)

	for _, l := range logs {
		builder = builder.Values(
			l.EventID,
			l.EventType,
			l.PurchaseID,
			l.UserID,
			l.BookID,
			l.Quantity,
			l.TotalPrice,
			l.Status,
			l.OccurredAt,
			l.RecordedAt,
		)
	}

	query, args, err := builder.
		Suffix("ON CONFLICT (event_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build audit logs insert query: %w", err)
	}

	if _, err := r.pgClient.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to bulk insert audit logs: %w", err)
	}

	return nil
}

// ListByPurchase returns the recorded history of one purchase in event order.
func (r *AuditRepository) ListByPurchase(
	ctx context.Context,
	purchaseID int64,
) ([]auditlog.PurchaseAuditLog, error) {
	query, args, err := sq.Select(
		"id",
		"event_id",
		"event_type",
		"purchase_id",
		"user_id",
		"book_id",
		"quantity",
		"total_price",
		"status",
		"occurred_at",
		"recorded_at",
	).
		From("purchase_audit_log").
		Where(sq.Eq{"purchase_id": purchaseID}).
		OrderBy("occurred_at ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build audit logs select query: %w", err)
	}

	rows, err := r.pgClient.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	var logs []auditlog.PurchaseAuditLog
	for rows.Next() {
		var l auditlog.PurchaseAuditLog
		err := rows.Scan(
			&l.ID,
			&l.EventID,
			&l.EventType,
			&l.PurchaseID,
			&l.UserID,
			&l.BookID,
			&l.Quantity,
			&l.TotalPrice,
			&l.Status,
			&l.OccurredAt,
			&l.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit logs: %w", err)
	}

	return logs, nil
}
