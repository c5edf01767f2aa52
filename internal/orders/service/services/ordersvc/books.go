package ordersvc

import (
	"context"
	"log/slog"

	"github.com/corray333/bookstore/internal/identity"
	"github.com/corray333/bookstore/internal/orders/service/models/book"
	"go.opentelemetry.io/otel"
)

// CreateBook registers a book in the local mirror with the caller as seller.
func (s *OrderService) CreateBook(
	ctx context.Context,
	caller *identity.Principal,
	b book.Book,
) (book.Book, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.CreateBook")
	defer span.End()

	b.SellerID = caller.ID

	b, err := s.bookRepo.Insert(ctx, b)
	if err != nil {
		return book.Book{}, err
	}

	slog.Info("Book registered", "book_id", b.ID, "seller_id", b.SellerID)

	return b, nil
}

// GetBook returns one mirrored book.
func (s *OrderService) GetBook(ctx context.Context, id int64) (*book.Book, error) {
	b, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookNotFound
	}

	return b, nil
}

// UpdateBook modifies a mirrored book. Selling user or admin only.
func (s *OrderService) UpdateBook(
	ctx context.Context,
	caller *identity.Principal,
	b book.Book,
) (*book.Book, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.UpdateBook")
	defer span.End()

	current, err := s.bookRepo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrBookNotFound
	}
	if current.SellerID != caller.ID && !caller.IsAdmin {
		return nil, ErrForbidden
	}

	b.SellerID = current.SellerID
	b.CreatedAt = current.CreatedAt
	if err := s.bookRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	return &b, nil
}

// DeleteBook removes a mirrored book. Selling user or admin only.
func (s *OrderService) DeleteBook(
	ctx context.Context,
	caller *identity.Principal,
	id int64,
) error {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.DeleteBook")
	defer span.End()

	current, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrBookNotFound
	}
	if current.SellerID != caller.ID && !caller.IsAdmin {
		return ErrForbidden
	}

	if err := s.bookRepo.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("Book deleted", "book_id", id, "deleted_by", caller.ID)

	return nil
}
