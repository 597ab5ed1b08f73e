package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/carfleet-billing/internal/config"
	"github.com/carfleet-billing/internal/data/mongo"
	"github.com/carfleet-billing/internal/data/postgres"
	"github.com/carfleet-billing/internal/domain/pricing"
	"github.com/carfleet-billing/internal/logger"
	"github.com/carfleet-billing/internal/platform/persistence"
	"github.com/carfleet-billing/internal/rental_api"
	"github.com/carfleet-billing/internal/rental_api/service"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("rental_api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	rentalRepo := postgres.NewRentalRepository(log, postgresDB)
	carRepo := postgres.NewCarRepository(log, postgresDB)
	inventory := postgres.NewCarInventoryGateway(log, postgresDB)
	depositRepo := postgres.NewDepositRepository(log, postgresDB)
	penaltyRepo := postgres.NewPenaltyRepository(log, postgresDB)
	paymentRepo := postgres.NewPaymentRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	auditRepo := mongo.NewAuditRepository(log, mongoDB.Database())

	// Initialize services
	clock := service.SystemClock{}
	rentalService := service.NewRentalService(
		log,
		postgresDB.Pool(),
		clock,
		rentalRepo,
		carRepo,
		inventory,
		depositRepo,
		paymentRepo,
		outboxRepo,
	)
	settlementService := service.NewSettlementService(
		log,
		postgresDB.Pool(),
		clock,
		pricing.DefaultEngine(),
		cfg.Settlement,
		rentalRepo,
		carRepo,
		inventory,
		depositRepo,
		penaltyRepo,
		paymentRepo,
		outboxRepo,
	)
	fleetService := service.NewFleetService(log, carRepo)
	auditService := service.NewAuditService(log, auditRepo)

	// Initialize REST server
	server := rental_api.NewServer(log, cfg, rentalService, settlementService, fleetService, auditService)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
