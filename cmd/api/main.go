package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"budgetmaster/internal/classifier"
	"budgetmaster/internal/config"
	"budgetmaster/internal/database"
	"budgetmaster/internal/logger"
	"budgetmaster/internal/queue"
	"budgetmaster/internal/server"
	"budgetmaster/internal/validator"
)

// @title           BudgetMaster API
// @version         1.0
// @description     BudgetMaster tracks monthly budgets and keeps the food budget in step with grocery spending.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	log := logger.Get()

	validator.Register()

	foodClassifier, err := classifier.FromFile(cfg.FoodKeywordsFile)
	if err != nil {
		return fmt.Errorf("failed to load food keywords: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	opts := server.Options{
		JWTSecret:          cfg.JWTSecret,
		JWTAudience:        cfg.JWTAudience,
		PipelineAPIKey:     cfg.PipelineAPIKey,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Classifier:         foodClassifier,
		DefaultFoodBudget:  cfg.DefaultFoodBudget,
		InvalidateSeries:   cfg.BudgetCacheInvalidateSeries,
	}

	var client *queue.Client
	if cfg.QueueEnabled() {
		client, err = queue.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return fmt.Errorf("failed to connect to message broker: %w", err)
		}
		defer client.Close()
		opts.Publisher = client
		log.Infow("food reconciliation delegated to worker", "queue", cfg.AMQPQueue)
	} else {
		log.Info("food reconciliation runs inline")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := server.New(dbManager.DB(), opts)
	defer app.WS.Close()

	// Budgets changed by the worker invalidate this instance's cache.
	if client != nil {
		go func() {
			err := client.ConsumeBudgetEvents(ctx, queue.ApplyBudgetChanges(app.Budgets))
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Errorw("budget event consumer stopped", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting BudgetMaster backend server on port %s", cfg.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
