package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/bookstore/internal/orders/dal/db"
	"github.com/corray333/bookstore/internal/orders/service/models/provider"
)

// ProviderRepository implements the delivery provider repository for PostgreSQL.
type ProviderRepository struct {
	conn db.DBTX
}

// NewProviderRepository creates a new provider repository.
func NewProviderRepository(conn db.DBTX) *ProviderRepository {
	return &ProviderRepository{
		conn: conn,
	}
}

// List returns all delivery providers.
func (r *ProviderRepository) List(ctx context.Context) ([]provider.DeliveryProvider, error) {
	query, args, err := sq.Select("id", "name", "coverage_area", "cost").
		From("delivery_providers").
		OrderBy("id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query providers: %w", err)
	}
	defer rows.Close()

	var providers []provider.DeliveryProvider
	for rows.Next() {
		var p provider.DeliveryProvider
		if err := rows.Scan(&p.ID, &p.Name, &p.CoverageArea, &p.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan provider: %w", err)
		}
		providers = append(providers, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating providers: %w", err)
	}

	return providers, nil
}

// Count returns the number of providers.
func (r *ProviderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.conn.QueryRow(ctx, "SELECT count(*) FROM delivery_providers").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count providers: %w", err)
	}

	return count, nil
}

// BulkInsert seeds the provider reference data.
func (r *ProviderRepository) BulkInsert(ctx context.Context, providers []provider.DeliveryProvider) error {
	if len(providers) == 0 {
		return nil
	}

	builder := sq.Insert("delivery_providers").
		Columns("name", "coverage_area", "cost").
		PlaceholderFormat(sq.Dollar)
	for _, p := range providers {
		builder = builder.Values(p.Name, p.CoverageArea, p.Cost)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert providers: %w", err)
	}

	return nil
}
