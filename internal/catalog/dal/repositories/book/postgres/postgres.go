package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/bookstore/internal/catalog/dal/interfaces/ibookrepo"
	"github.com/corray333/bookstore/internal/catalog/service/models/book"
	sharedpg "github.com/corray333/bookstore/internal/postgres"
	"github.com/jackc/pgx/v5"
)

// BookRepository implements the catalog repository for PostgreSQL.
type BookRepository struct {
	client *sharedpg.Client
}

// NewBookRepository creates a new catalog repository.
func NewBookRepository(client *sharedpg.Client) *BookRepository {
	return &BookRepository{
		client: client,
	}
}

var columns = []string{"id", "title", "author", "description", "price", "stock", "seller_id", "created_at"}

// GetByID returns the book with the given id, or nil when absent.
func (r *BookRepository) GetByID(ctx context.Context, id int64) (*book.Book, error) {
	query, args, err := sq.Select(columns...).
		From("books").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var b book.Book
	err = r.client.Pool().QueryRow(ctx, query, args...).
		Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Price, &b.Stock, &b.SellerID, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query book: %w", err)
	}

	return &b, nil
}

// Query returns books matching the filter.
func (r *BookRepository) Query(ctx context.Context, filter ibookrepo.Filter) ([]book.Book, error) {
	builder := sq.Select(columns...).
		From("books").
		OrderBy("id").
		PlaceholderFormat(sq.Dollar)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"author": pattern},
		})
	}
	if filter.SellerID != 0 {
		builder = builder.Where(sq.Eq{"seller_id": filter.SellerID})
	}
	if filter.AvailableOnly {
		builder = builder.Where(sq.Gt{"stock": 0})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []book.Book
	for rows.Next() {
		var b book.Book
		err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Price, &b.Stock, &b.SellerID, &b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}

	return books, nil
}
