package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"budgetmaster/internal/classifier"
	"budgetmaster/internal/config"
	"budgetmaster/internal/database"
	"budgetmaster/internal/logger"
	"budgetmaster/internal/queue"
	"budgetmaster/internal/server"
)

// reconcile-worker consumes food reconciliation requests published by the
// API when AMQP_URL is set.
func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	log := logger.Named("reconcile-worker")

	if !cfg.QueueEnabled() {
		return errors.New("AMQP_URL is required for the reconcile worker")
	}

	foodClassifier, err := classifier.FromFile(cfg.FoodKeywordsFile)
	if err != nil {
		return fmt.Errorf("failed to load food keywords: %w", err)
	}

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	client, err := queue.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("failed to connect to message broker: %w", err)
	}
	defer client.Close()

	// Budget changes are published back so API instances drop their cached
	// months and push websocket events.
	app := server.New(dbManager.DB(), server.Options{
		Classifier:        foodClassifier,
		DefaultFoodBudget: cfg.DefaultFoodBudget,
		InvalidateSeries:  cfg.BudgetCacheInvalidateSeries,
		ChangePublisher:   client,
	})
	defer app.WS.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infow("reconcile worker started", "queue", cfg.AMQPQueue)
	if err := client.ConsumeReconcile(ctx, queue.ReconcileHandler(app.Reconciler)); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("reconcile worker stopped")
	return nil
}
