package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditrepo "github.com/corray333/bookstore/internal/audit/dal/repositories/audit/postgres"
	inboxrepo "github.com/corray333/bookstore/internal/audit/dal/repositories/inbox/postgres"
	"github.com/corray333/bookstore/internal/audit/service/services/auditsvc"
	"github.com/corray333/bookstore/internal/audit/transport/consumer"
	inboxworker "github.com/corray333/bookstore/internal/audit/worker/inbox"
	"github.com/corray333/bookstore/internal/otel"
	"github.com/corray333/bookstore/internal/postgres"
	"github.com/corray333/bookstore/internal/rabbitmq"
	"github.com/spf13/viper"
)

// App represents the audit service application.
type App struct {
	auditSvc       *auditsvc.AuditService
	consumerTransp *consumer.Consumer
	inboxWorker    *inboxworker.Worker
	rabbitClient   *rabbitmq.Client
	postgresClient *postgres.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	rabbitClient := rabbitmq.MustNewClient()
	postgresClient := postgres.MustNewClient("AUDIT")

	auditRepository := auditrepo.NewAuditRepository(postgresClient)
	inboxRepository := inboxrepo.NewInboxRepository(postgresClient)

	auditSvc := auditsvc.MustNewAuditService(
		auditsvc.WithAuditRepository(auditRepository),
	)

	consumerTransp := consumer.NewConsumer(rabbitClient, auditSvc, inboxRepository)

	pollIntervalSeconds := viper.GetInt("rabbitmq.inbox.poll_interval_seconds")
	if pollIntervalSeconds == 0 {
		pollIntervalSeconds = 10
	}
	batchSize := viper.GetInt("rabbitmq.inbox.batch_size")
	if batchSize == 0 {
		batchSize = 100
	}

	inboxWorker := inboxworker.NewWorker(
		inboxRepository,
		auditSvc,
		time.Duration(pollIntervalSeconds)*time.Second,
		batchSize,
	)

	return &App{
		auditSvc:       auditSvc,
		consumerTransp: consumerTransp,
		inboxWorker:    inboxWorker,
		rabbitClient:   rabbitClient,
		postgresClient: postgresClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("Starting consumer")
		if err := a.consumerTransp.Run(ctx); err != nil {
			slog.Error("Consumer error", "error", err)
		}
	}()

	go func() {
		slog.Info("Starting inbox worker")
		a.inboxWorker.Start(ctx)
	}()

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown()
}

// gracefulShutdown stops components sequentially: inbox worker, consumer,
// RabbitMQ, PostgreSQL and the trace provider.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.inboxWorker.Stop()
	slog.Info("Inbox worker stopped gracefully")

	if err := a.consumerTransp.Shutdown(); err != nil {
		slog.Error("Consumer shutdown error", "error", err)
	} else {
		slog.Info("Consumer stopped gracefully")
	}

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider close error", "error", err)
	} else {
		slog.Info("Otel trace provider closed gracefully")
	}

	select {
	case <-ctx.Done():
		slog.Warn("Shutdown timeout exceeded")
	default:
		slog.Info("Application shutdown complete")
	}
}
