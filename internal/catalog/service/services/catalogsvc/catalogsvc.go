package catalogsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/bookstore/internal/catalog/dal/interfaces/ibookrepo"
	"github.com/corray333/bookstore/internal/catalog/service/models/book"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
)

var ErrBookNotFound = errors.New("book not found")

// Cache key and TTL for single-book reads.
const (
	keyBook      = "catalog:book:%d"
	ttlBookCache = 5 * time.Minute
)

// CatalogService serves catalog reads, with a Redis read-through cache for
// single-book lookups.
type CatalogService struct {
	bookRepo ibookrepo.IBookRepository
	redis    *redis.Client
}

// option is a function that configures the CatalogService.
type option func(*CatalogService)

// MustNewCatalogService creates a new CatalogService.
func MustNewCatalogService(opts ...option) *CatalogService {
	s := &CatalogService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithBookRepository sets the book repository for the CatalogService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithBookRepository(bookRepo ibookrepo.IBookRepository) option {
	return func(s *CatalogService) {
		s.bookRepo = bookRepo
	}
}

// WithRedisClient sets the cache client for the CatalogService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRedisClient(rdb *redis.Client) option {
	return func(s *CatalogService) {
		s.redis = rdb
	}
}

// GetCatalog returns every book in the catalog.
func (s *CatalogService) GetCatalog(ctx context.Context) ([]book.Book, error) {
	return s.bookRepo.Query(ctx, ibookrepo.Filter{})
}

// Search returns books whose title or author matches the query.
func (s *CatalogService) Search(ctx context.Context, q string) ([]book.Book, error) {
	return s.bookRepo.Query(ctx, ibookrepo.Filter{Search: q})
}

// GetBook returns a single book. The cache is best effort: Redis failures fall
// through to Postgres.
func (s *CatalogService) GetBook(ctx context.Context, id int64) (*book.Book, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "CatalogService.GetBook")
	defer span.End()

	key := fmt.Sprintf(keyBook, id)
	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, key).Result(); err == nil && raw != "" {
			var b book.Book
			if err := json.Unmarshal([]byte(raw), &b); err == nil {
				return &b, nil
			}
		}
	}

	b, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookNotFound
	}

	if s.redis != nil {
		raw, err := json.Marshal(b)
		if err == nil {
			if err := s.redis.Set(ctx, key, raw, ttlBookCache).Err(); err != nil {
				slog.Warn("Failed to cache book", "book_id", id, "error", err)
			}
		}
	}

	return b, nil
}

// BooksBySeller returns the books listed by one seller.
func (s *CatalogService) BooksBySeller(ctx context.Context, sellerID int64) ([]book.Book, error) {
	return s.bookRepo.Query(ctx, ibookrepo.Filter{SellerID: sellerID})
}

// AvailableBooks returns books with stock on hand.
func (s *CatalogService) AvailableBooks(ctx context.Context) ([]book.Book, error) {
	return s.bookRepo.Query(ctx, ibookrepo.Filter{AvailableOnly: true})
}
