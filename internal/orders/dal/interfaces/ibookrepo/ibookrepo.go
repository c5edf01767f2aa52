package ibookrepo

import (
	"context"

	"github.com/corray333/bookstore/internal/orders/service/models/book"
)

// IBookRepository defines the interface for the denormalized book mirror.
type IBookRepository interface {
	Insert(ctx context.Context, b book.Book) (book.Book, error)
	GetByID(ctx context.Context, id int64) (*book.Book, error)
	Update(ctx context.Context, b book.Book) error
	Delete(ctx context.Context, id int64) error
}
