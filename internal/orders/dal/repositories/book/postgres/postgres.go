package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/bookstore/internal/orders/dal/db"
	"github.com/corray333/bookstore/internal/orders/service/models/book"
	"github.com/jackc/pgx/v5"
)

// BookRepository implements the book mirror repository for PostgreSQL.
type BookRepository struct {
	conn db.DBTX
}

// NewBookRepository creates a new book mirror repository.
func NewBookRepository(conn db.DBTX) *BookRepository {
	return &BookRepository{
		conn: conn,
	}
}

// Insert adds a new book and returns it with the assigned id and timestamp.
func (r *BookRepository) Insert(ctx context.Context, b book.Book) (book.Book, error) {
	query, args, err := sq.Insert("books").
		Columns("title", "author", "description", "price", "stock", "seller_id").
		Values(b.Title, b.Author, b.Description, b.Price, b.Stock, b.SellerID).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return book.Book{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt); err != nil {
		return book.Book{}, fmt.Errorf("failed to insert book: %w", err)
	}

	return b, nil
}

// GetByID returns the book with the given id, or nil when absent.
func (r *BookRepository) GetByID(ctx context.Context, id int64) (*book.Book, error) {
	query, args, err := sq.Select("id", "title", "author", "description", "price", "stock", "seller_id", "created_at").
		From("books").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var b book.Book
	err = r.conn.QueryRow(ctx, query, args...).
		Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Price, &b.Stock, &b.SellerID, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query book: %w", err)
	}

	return &b, nil
}

// Update replaces the mutable fields of a book.
func (r *BookRepository) Update(ctx context.Context, b book.Book) error {
	query, args, err := sq.Update("books").
		Set("title", b.Title).
		Set("author", b.Author).
		Set("description", b.Description).
		Set("price", b.Price).
		Set("stock", b.Stock).
		Where(sq.Eq{"id": b.ID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}

	return nil
}

// Delete removes a book from the mirror.
func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := sq.Delete("books").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	return nil
}
