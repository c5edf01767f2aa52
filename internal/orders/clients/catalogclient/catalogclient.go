package catalogclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/corray333/bookstore/internal/orders/service/models/book"
)

var (
	// ErrBookNotFound covers both a missing book and any non-200 catalog
	// response.
	ErrBookNotFound = errors.New("book not found")

	// ErrUnavailable is returned when the catalog cannot be reached at all.
	ErrUnavailable = errors.New("catalog service unavailable")
)

// Client looks up books in the catalog service over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a catalog client calling GET {baseURL}/catalog/{id}.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type bookResponse struct {
	Book *book.Book `json:"book"`
}

// LookupBook resolves a book id to its current catalog entry.
func (c *Client) LookupBook(ctx context.Context, id int64) (*book.Book, error) {
	url := fmt.Sprintf("%s/catalog/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		slog.Warn("Catalog lookup request failed", "book_id", id, "error", err)

		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: catalog returned %d", ErrBookNotFound, resp.StatusCode)
	}

	var body bookResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if body.Book == nil {
		return nil, ErrBookNotFound
	}

	return body.Book, nil
}
