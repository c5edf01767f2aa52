package ibookrepo

import (
	"context"

	"github.com/corray333/bookstore/internal/catalog/service/models/book"
)

// Filter narrows catalog queries. Zero value selects the whole catalog.
type Filter struct {
	Search        string
	SellerID      int64
	AvailableOnly bool
}

// IBookRepository defines the interface for catalog storage operations.
type IBookRepository interface {
	GetByID(ctx context.Context, id int64) (*book.Book, error)
	Query(ctx context.Context, filter Filter) ([]book.Book, error)
}
