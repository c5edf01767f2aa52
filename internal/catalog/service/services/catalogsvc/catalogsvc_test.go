package catalogsvc

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/corray333/bookstore/internal/catalog/dal/interfaces/ibookrepo"
	"github.com/corray333/bookstore/internal/catalog/service/models/book"
)

type fakeBookRepo struct {
	books []book.Book
}

func (r *fakeBookRepo) GetByID(_ context.Context, id int64) (*book.Book, error) {
	for _, b := range r.books {
		if b.ID == id {
			return &b, nil
		}
	}

	return nil, nil
}

func (r *fakeBookRepo) Query(_ context.Context, f ibookrepo.Filter) ([]book.Book, error) {
	var out []book.Book
	for _, b := range r.books {
		if f.Search != "" &&
			!strings.Contains(strings.ToLower(b.Title), strings.ToLower(f.Search)) &&
			!strings.Contains(strings.ToLower(b.Author), strings.ToLower(f.Search)) {
			continue
		}
		if f.SellerID != 0 && b.SellerID != f.SellerID {
			continue
		}
		if f.AvailableOnly && b.Stock <= 0 {
			continue
		}
		out = append(out, b)
	}

	return out, nil
}

func newTestService() *CatalogService {
	repo := &fakeBookRepo{books: []book.Book{
		{ID: 1, Title: "Dune", Author: "Frank Herbert", Price: 19.99, Stock: 4, SellerID: 5},
		{ID: 2, Title: "Hyperion", Author: "Dan Simmons", Price: 14.50, Stock: 0, SellerID: 5},
		{ID: 3, Title: "Solaris", Author: "Stanislaw Lem", Price: 11.00, Stock: 2, SellerID: 6},
	}}

	return MustNewCatalogService(WithBookRepository(repo))
}

func TestGetBook(t *testing.T) {
	svc := newTestService()

	b, err := svc.GetBook(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if b.Title != "Dune" {
		t.Errorf("title = %q, want Dune", b.Title)
	}

	if _, err := svc.GetBook(context.Background(), 404); !errors.Is(err, ErrBookNotFound) {
		t.Errorf("missing book: err = %v, want ErrBookNotFound", err)
	}
}

func TestSearch(t *testing.T) {
	svc := newTestService()

	byTitle, err := svc.Search(context.Background(), "dune")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(byTitle) != 1 || byTitle[0].ID != 1 {
		t.Errorf("search by title = %+v, want book 1", byTitle)
	}

	byAuthor, err := svc.Search(context.Background(), "simmons")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(byAuthor) != 1 || byAuthor[0].ID != 2 {
		t.Errorf("search by author = %+v, want book 2", byAuthor)
	}
}

func TestAvailableBooks(t *testing.T) {
	svc := newTestService()

	books, err := svc.AvailableBooks(context.Background())
	if err != nil {
		t.Fatalf("AvailableBooks: %v", err)
	}
	for _, b := range books {
		if b.Stock <= 0 {
			t.Errorf("book %d has no stock but was listed as available", b.ID)
		}
	}
	if len(books) != 2 {
		t.Errorf("available books = %d, want 2", len(books))
	}
}

func TestBooksBySeller(t *testing.T) {
	svc := newTestService()

	books, err := svc.BooksBySeller(context.Background(), 5)
	if err != nil {
		t.Fatalf("BooksBySeller: %v", err)
	}
	if len(books) != 2 {
		t.Errorf("seller books = %d, want 2", len(books))
	}
}
