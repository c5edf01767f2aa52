package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/corray333/bookstore/internal/catalog/service/models/book"
	"github.com/corray333/bookstore/internal/identity"
	"github.com/corray333/bookstore/pkg/http/middleware/trace"
	"github.com/corray333/bookstore/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
)

type service interface {
	GetCatalog(ctx context.Context) ([]book.Book, error)
	Search(ctx context.Context, q string) ([]book.Book, error)
	GetBook(ctx context.Context, id int64) (*book.Book, error)
	BooksBySeller(ctx context.Context, sellerID int64) ([]book.Book, error)
	AvailableBooks(ctx context.Context) ([]book.Book, error)
}

type HTTPTransport struct {
	server   *http.Server
	router   *chi.Mux
	service  service
	verifier identity.Verifier
}

func NewHTTPTransport(service service) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	verifier := identity.NewHTTPVerifier(
		viper.GetString("auth_service.url"),
		viper.GetDuration("auth_service.timeout"),
	)

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
	h.router.Get("/catalog", h.getCatalog)
	h.router.Get("/catalog/search", h.search)
	h.router.Get("/catalog/available", h.availableBooks)
	h.router.Get("/catalog/seller/{id}", h.booksBySeller)
	h.router.Get("/catalog/{id}", h.getBook)

	h.router.Group(func(r chi.Router) {
		r.Use(identity.NewAuthMiddleware(h.verifier))
		r.Get("/my-books", h.myBooks)
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
	router.Use(middleware.Timeout(15 * time.Second))

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

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
