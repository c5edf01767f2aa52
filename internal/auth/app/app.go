package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	userrepo "github.com/corray333/bookstore/internal/auth/dal/repositories/user/postgres"
	"github.com/corray333/bookstore/internal/auth/service/services/authsvc"
	httptransport "github.com/corray333/bookstore/internal/auth/transport/http"
	"github.com/corray333/bookstore/internal/otel"
	"github.com/corray333/bookstore/internal/postgres"
)

// App represents the auth service application.
type App struct {
	authSvc        *authsvc.AuthService
	transport      *httptransport.HTTPTransport
	postgresClient *postgres.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient("AUTH")

	userRepository := userrepo.NewUserRepository(postgresClient)

	authSvc := authsvc.MustNewAuthService(
		authsvc.WithUserRepository(userRepository),
	)

	transport := httptransport.NewHTTPTransport(authSvc)
	transport.RegisterRoutes()

	return &App{
		authSvc:        authSvc,
		transport:      transport,
		postgresClient: postgresClient,
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

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider close error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
