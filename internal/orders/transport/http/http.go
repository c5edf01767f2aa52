package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/corray333/bookstore/internal/identity"
	"github.com/corray333/bookstore/internal/orders/clients/catalogclient"
	"github.com/corray333/bookstore/internal/orders/service/models/book"
	"github.com/corray333/bookstore/internal/orders/service/models/delivery"
	"github.com/corray333/bookstore/internal/orders/service/models/payment"
	"github.com/corray333/bookstore/internal/orders/service/models/provider"
	"github.com/corray333/bookstore/internal/orders/service/models/purchase"
	"github.com/corray333/bookstore/internal/orders/service/services/ordersvc"
	"github.com/corray333/bookstore/pkg/http/middleware/trace"
	"github.com/corray333/bookstore/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
)

type service interface {
	CreatePurchase(ctx context.Context, caller *identity.Principal, bookID int64, quantity int) (*purchase.Purchase, *book.Book, error)
	ListPurchases(ctx context.Context, caller *identity.Principal) ([]purchase.Purchase, error)
	GetPurchase(ctx context.Context, caller *identity.Principal, id int64) (*purchase.Purchase, error)

	CreatePayment(ctx context.Context, caller *identity.Principal, purchaseID int64, paymentMethod string) (*payment.Payment, error)
	GetPayment(ctx context.Context, caller *identity.Principal, purchaseID int64) (*payment.Payment, error)

	ListProviders(ctx context.Context) ([]provider.DeliveryProvider, error)
	CreateDelivery(ctx context.Context, caller *identity.Principal, purchaseID, providerID int64, address string) (*delivery.Delivery, error)
	GetDelivery(ctx context.Context, caller *identity.Principal, purchaseID int64) (*delivery.Delivery, error)

	CreateBook(ctx context.Context, caller *identity.Principal, b book.Book) (book.Book, error)
	GetBook(ctx context.Context, id int64) (*book.Book, error)
	UpdateBook(ctx context.Context, caller *identity.Principal, b book.Book) (*book.Book, error)
	DeleteBook(ctx context.Context, caller *identity.Principal, id int64) error
}

type HTTPTransport struct {
	server   *http.Server
	router   *chi.Mux
	service  service
	verifier identity.Verifier
}

func NewHTTPTransport(service service, verifier identity.Verifier) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:   server,
		router:   router,
		service:  service,
		verifier: verifier,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Get("/health", h.health)
	h.router.Get("/delivery-providers", h.listProviders)

	h.router.Group(func(r chi.Router) {
		r.Use(identity.NewAuthMiddleware(h.verifier))

		r.Post("/purchase", h.createPurchase)
		r.Get("/purchases", h.listPurchases)
		r.Get("/purchases/{id}", h.getPurchase)

		r.Post("/payment", h.createPayment)
		r.Get("/payments/{purchase_id}", h.getPayment)

		r.Post("/delivery", h.createDelivery)
		r.Get("/deliveries/{purchase_id}", h.getDelivery)

		r.Post("/books", h.createBook)
		r.Get("/books/{id}", h.getBook)
		r.Put("/books/{id}", h.updateBook)
		r.Delete("/books/{id}", h.deleteBook)
	})
}

func (h *HTTPTransport) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": viper.GetString("service.name"),
	})
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins:   viper.GetStringSlice("server.http.cors.allowed_origins"),
		AllowedMethods:   viper.GetStringSlice("server.http.cors.allowed_methods"),
		AllowedHeaders:   viper.GetStringSlice("server.http.cors.allowed_headers"),
		ExposedHeaders:   viper.GetStringSlice("server.http.cors.exposed_headers"),
		AllowCredentials: viper.GetBool("server.http.cors.allow_credentials"),
		MaxAge:           viper.GetInt("server.http.cors.max_age"),
	})
	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}

// NewCatalogClient builds the catalog collaborator from configuration.
func NewCatalogClient() *catalogclient.Client {
	timeout := viper.GetDuration("catalog_service.timeout")
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return catalogclient.NewClient(viper.GetString("catalog_service.url"), timeout)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeServiceError translates workflow sentinels into HTTP responses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ordersvc.ErrForbidden):
		writeError(w, http.StatusForbidden, "Unauthorized")
	case errors.Is(err, ordersvc.ErrInsufficientStock):
		writeError(w, http.StatusBadRequest, "Insufficient stock")
	case errors.Is(err, ordersvc.ErrNotPaid):
		writeError(w, http.StatusBadRequest, "Purchase must be paid first")
	case errors.Is(err, ordersvc.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, "Quantity must be positive")
	case errors.Is(err, ordersvc.ErrPurchaseNotFound):
		writeError(w, http.StatusNotFound, "Purchase not found")
	case errors.Is(err, ordersvc.ErrPaymentNotFound):
		writeError(w, http.StatusNotFound, "Payment not found")
	case errors.Is(err, ordersvc.ErrDeliveryNotFound):
		writeError(w, http.StatusNotFound, "Delivery not found")
	case errors.Is(err, ordersvc.ErrBookNotFound), errors.Is(err, catalogclient.ErrBookNotFound):
		writeError(w, http.StatusNotFound, "Book not found")
	case errors.Is(err, catalogclient.ErrUnavailable):
		writeError(w, http.StatusInternalServerError, "Error fetching book information")
	default:
		slog.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
