package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corray333/bookstore/internal/identity"
	bookrepo "github.com/corray333/bookstore/internal/orders/dal/repositories/book/postgres"
	outboxrepo "github.com/corray333/bookstore/internal/orders/dal/repositories/outbox/postgres"
	providerrepo "github.com/corray333/bookstore/internal/orders/dal/repositories/provider/postgres"
	"github.com/corray333/bookstore/internal/orders/service/services/ordersvc"
	httptransport "github.com/corray333/bookstore/internal/orders/transport/http"
	outboxworker "github.com/corray333/bookstore/internal/orders/worker/outbox"
	"github.com/corray333/bookstore/internal/otel"
	"github.com/corray333/bookstore/internal/postgres"
	"github.com/corray333/bookstore/internal/rabbitmq"
	"github.com/spf13/viper"
)

// App represents the orders service application.
type App struct {
	orderSvc       *ordersvc.OrderService
	transport      *httptransport.HTTPTransport
	outboxWorker   *outboxworker.Worker
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	otelController *otel.OtelController

	workerCancel context.CancelFunc
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient("ORDERS")
	rabbitClient := rabbitmq.MustNewClient()

	if _, err := rabbitClient.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    viper.GetString("rabbitmq.queue"),
		Durable: true,
	}); err != nil {
		panic("failed to declare events queue: " + err.Error())
	}

	providerRepository := providerrepo.NewProviderRepository(postgresClient.Pool())
	bookRepository := bookrepo.NewBookRepository(postgresClient.Pool())
	outboxRepository := outboxrepo.NewOutboxRepository(postgresClient.Pool())

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
		ordersvc.WithCatalogLookup(httptransport.NewCatalogClient()),
		ordersvc.WithProviderRepository(providerRepository),
		ordersvc.WithBookRepository(bookRepository),
	)

	if err := orderSvc.SeedProviders(context.Background()); err != nil {
		panic("failed to seed delivery providers: " + err.Error())
	}

	authTimeout := viper.GetDuration("auth_service.timeout")
	verifier := identity.NewHTTPVerifier(viper.GetString("auth_service.url"), authTimeout)

	transport := httptransport.NewHTTPTransport(orderSvc, verifier)
	transport.RegisterRoutes()

	worker := outboxworker.NewWorker(outboxRepository, rabbitClient)

	return &App{
		orderSvc:       orderSvc,
		transport:      transport,
		outboxWorker:   worker,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	a.workerCancel = workerCancel
	go a.outboxWorker.Start(workerCtx)

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

	a.workerCancel()

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider close error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
