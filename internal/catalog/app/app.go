package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	bookrepo "github.com/corray333/bookstore/internal/catalog/dal/repositories/book/postgres"
	"github.com/corray333/bookstore/internal/catalog/service/services/catalogsvc"
	httptransport "github.com/corray333/bookstore/internal/catalog/transport/http"
	"github.com/corray333/bookstore/internal/otel"
	"github.com/corray333/bookstore/internal/postgres"
	"github.com/corray333/bookstore/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// App represents the catalog service application.
type App struct {
	catalogSvc     *catalogsvc.CatalogService
	transport      *httptransport.HTTPTransport
	postgresClient *postgres.Client
	redisClient    *redis.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient("CATALOG")
	redisClient := redisx.New()

	bookRepository := bookrepo.NewBookRepository(postgresClient)

	catalogSvc := catalogsvc.MustNewCatalogService(
		catalogsvc.WithBookRepository(bookRepository),
		catalogsvc.WithRedisClient(redisClient),
	)

	transport := httptransport.NewHTTPTransport(catalogSvc)
	transport.RegisterRoutes()

	return &App{
		catalogSvc:     catalogSvc,
		transport:      transport,
		postgresClient: postgresClient,
		redisClient:    redisClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.redisClient.Close(); err != nil {
		slog.Error("Redis connection close error", "error", err)
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider close error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
