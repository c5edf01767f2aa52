package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/corray333/bookstore/internal/identity"
	"github.com/corray333/bookstore/internal/orders/clients/catalogclient"
	"github.com/corray333/bookstore/internal/orders/service/models/book"
	"github.com/corray333/bookstore/internal/orders/service/models/delivery"
	"github.com/corray333/bookstore/internal/orders/service/models/payment"
	"github.com/corray333/bookstore/internal/orders/service/models/provider"
	"github.com/corray333/bookstore/internal/orders/service/models/purchase"
	"github.com/corray333/bookstore/internal/orders/service/services/ordersvc"
)

type fakeService struct {
	purchase  *purchase.Purchase
	book      *book.Book
	payment   *payment.Payment
	delivery  *delivery.Delivery
	providers []provider.DeliveryProvider
	err       error
}

func (s *fakeService) CreatePurchase(context.Context, *identity.Principal, int64, int) (*purchase.Purchase, *book.Book, error) {
	return s.purchase, s.book, s.err
}

func (s *fakeService) ListPurchases(context.Context, *identity.Principal) ([]purchase.Purchase, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.purchase == nil {
		return nil, nil
	}

	return []purchase.Purchase{*s.purchase}, nil
}

func (s *fakeService) GetPurchase(context.Context, *identity.Principal, int64) (*purchase.Purchase, error) {
	return s.purchase, s.err
}

func (s *fakeService) CreatePayment(context.Context, *identity.Principal, int64, string) (*payment.Payment, error) {
	return s.payment, s.err
}

func (s *fakeService) GetPayment(context.Context, *identity.Principal, int64) (*payment.Payment, error) {
	return s.payment, s.err
}

func (s *fakeService) ListProviders(context.Context) ([]provider.DeliveryProvider, error) {
	return s.providers, s.err
}

func (s *fakeService) CreateDelivery(context.Context, *identity.Principal, int64, int64, string) (*delivery.Delivery, error) {
	return s.delivery, s.err
}

func (s *fakeService) GetDelivery(context.Context, *identity.Principal, int64) (*delivery.Delivery, error) {
	return s.delivery, s.err
}

func (s *fakeService) CreateBook(_ context.Context, _ *identity.Principal, b book.Book) (book.Book, error) {
	return b, s.err
}

func (s *fakeService) GetBook(context.Context, int64) (*book.Book, error) {
	return s.book, s.err
}

func (s *fakeService) UpdateBook(_ context.Context, _ *identity.Principal, b book.Book) (*book.Book, error) {
	if s.err != nil {
		return nil, s.err
	}

	return &b, nil
}

func (s *fakeService) DeleteBook(context.Context, *identity.Principal, int64) error {
	return s.err
}

type staticVerifier struct {
	principal *identity.Principal
	err       error
}

func (v *staticVerifier) VerifyIdentity(context.Context, string) (*identity.Principal, error) {
	return v.principal, v.err
}

func newTestTransport(svc service) *HTTPTransport {
	verifier := &staticVerifier{principal: &identity.Principal{ID: 7, Name: "Reader"}}
	h := NewHTTPTransport(svc, verifier)
	h.RegisterRoutes()

	return h
}

func doRequest(h *HTTPTransport, method, path, body string, authed bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if authed {
		req.Header.Set("Authorization", "Bearer token")
	}

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	return rec
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}

	return body["error"]
}

func TestCreatePurchaseHandler(t *testing.T) {
	h := newTestTransport(&fakeService{
		purchase: &purchase.Purchase{ID: 1, UserID: 7, BookID: 3, Quantity: 2, TotalPrice: 39.98, Status: purchase.StatusPendingPayment},
		book:     &book.Book{ID: 3, Title: "Dune"},
	})

	rec := doRequest(h, http.MethodPost, "/purchase", `{"book_id": 3, "quantity": 2}`, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var body struct {
		Purchase purchase.Purchase `json:"purchase"`
		Book     book.Book         `json:"book"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Purchase.ID != 1 || body.Book.Title != "Dune" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestCreatePurchaseRequiresToken(t *testing.T) {
	h := newTestTransport(&fakeService{})

	rec := doRequest(h, http.MethodPost, "/purchase", `{"book_id": 3, "quantity": 2}`, false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := errorOf(t, rec); got != "Missing or invalid token" {
		t.Errorf("error = %q", got)
	}
}

func TestCreatePurchaseMissingFields(t *testing.T) {
	h := newTestTransport(&fakeService{})

	for _, body := range []string{`{}`, `{"book_id": 3}`, `{"quantity": 2}`, `not json`} {
		rec := doRequest(h, http.MethodPost, "/purchase", body, true)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)

			continue
		}
		if got := errorOf(t, rec); got != "Missing required fields" {
			t.Errorf("body %q: error = %q", body, got)
		}
	}
}

func TestCreatePurchaseErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"insufficient stock", ordersvc.ErrInsufficientStock, http.StatusBadRequest, "Insufficient stock"},
		{"book missing", catalogclient.ErrBookNotFound, http.StatusNotFound, "Book not found"},
		{"catalog down", catalogclient.ErrUnavailable, http.StatusInternalServerError, "Error fetching book information"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestTransport(&fakeService{err: tc.err})

			rec := doRequest(h, http.MethodPost, "/purchase", `{"book_id": 3, "quantity": 2}`, true)
			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if got := errorOf(t, rec); got != tc.wantError {
				t.Errorf("error = %q, want %q", got, tc.wantError)
			}
		})
	}
}

func TestCreateDeliveryBeforePayment(t *testing.T) {
	h := newTestTransport(&fakeService{err: ordersvc.ErrNotPaid})

	rec := doRequest(h, http.MethodPost, "/delivery", `{"purchase_id": 1, "provider_id": 2, "address": "Calle 1"}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := errorOf(t, rec); got != "Purchase must be paid first" {
		t.Errorf("error = %q", got)
	}
}

func TestGetPurchaseForbidden(t *testing.T) {
	h := newTestTransport(&fakeService{err: ordersvc.ErrForbidden})

	rec := doRequest(h, http.MethodGet, "/purchases/1", "", true)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if got := errorOf(t, rec); got != "Unauthorized" {
		t.Errorf("error = %q", got)
	}
}

func TestListPurchases(t *testing.T) {
	t.Run("with purchases", func(t *testing.T) {
		h := newTestTransport(&fakeService{
			purchase: &purchase.Purchase{ID: 1, UserID: 7, Status: purchase.StatusPaid},
		})

		rec := doRequest(h, http.MethodGet, "/purchases", "", true)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var body struct {
			Purchases []purchase.Purchase `json:"purchases"`
			Total     int                 `json:"total"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body.Total != 1 || len(body.Purchases) != 1 {
			t.Errorf("unexpected body: %+v", body)
		}
	})

	t.Run("empty list is an array", func(t *testing.T) {
		h := newTestTransport(&fakeService{})

		rec := doRequest(h, http.MethodGet, "/purchases", "", true)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"purchases":[]`) {
			t.Errorf("body = %s, want empty array", rec.Body.String())
		}
	})
}

func TestListProvidersIsPublic(t *testing.T) {
	h := newTestTransport(&fakeService{
		providers: []provider.DeliveryProvider{{ID: 1, Name: "DHL", CoverageArea: "Internacional", Cost: 50}},
	})

	rec := doRequest(h, http.MethodGet, "/delivery-providers", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Providers []provider.DeliveryProvider `json:"providers"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Providers) != 1 || body.Providers[0].Name != "DHL" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestCreateBookHandler(t *testing.T) {
	h := newTestTransport(&fakeService{})

	rec := doRequest(h, http.MethodPost, "/books", `{"title": "Dune", "author": "Herbert", "price": 12.5, "stock": 3}`, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	rec = doRequest(h, http.MethodPost, "/books", `{"title": "Dune"}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := errorOf(t, rec); got != "Missing required fields" {
		t.Errorf("error = %q", got)
	}
}
