package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/corray333/bookstore/internal/auth/service/models/user"
	"github.com/corray333/bookstore/internal/auth/service/services/authsvc"
	"github.com/corray333/bookstore/internal/identity"
	"github.com/corray333/bookstore/pkg/http/middleware/trace"
	"github.com/corray333/bookstore/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
)

type service interface {
	Register(ctx context.Context, name, email, password string, isAdmin bool) (*user.User, error)
	Login(ctx context.Context, email, password string) (string, *user.User, error)
	Validate(ctx context.Context, tokenString string) (*user.User, error)
	GetUser(ctx context.Context, id int64) (*user.User, error)
	ListUsers(ctx context.Context, caller *user.User) ([]user.User, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service
}

func NewHTTPTransport(service service) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:  server,
		router:  router,
		service: service,
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
	h.router.Post("/register", h.register)
	h.router.Post("/login", h.login)

	h.router.Group(func(r chi.Router) {
		r.Use(h.requireToken)
		r.Get("/validate", h.validate)
		r.Get("/user/{id}", h.getUser)
		r.Get("/users", h.listUsers)
	})
}

// requireToken validates the bearer token locally and stores the caller in the
// request context.
func (h *HTTPTransport) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Missing or invalid token")

			return
		}

		u, err := h.service.Validate(r.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			// A well-signed token whose account has since been deleted is not
			// an invalid token.
			if errors.Is(err, authsvc.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, "User not found")

				return
			}
			writeError(w, http.StatusUnauthorized, "Invalid token")

			return
		}

		ctx := identity.WithPrincipal(r.Context(), &identity.Principal{
			ID:      u.ID,
			Name:    u.Name,
			Email:   u.Email,
			IsAdmin: u.IsAdmin,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
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

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
