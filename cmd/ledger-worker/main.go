package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"amlyspay/internal/amqp"
	"amlyspay/internal/cache"
	"amlyspay/internal/cli"
	"amlyspay/internal/clock"
	"amlyspay/internal/log"
	"amlyspay/internal/services"
	gsheet "amlyspay/internal/sheets/google"
	"amlyspay/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting ledger-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("Invalid period timezone", log.FieldError, err, "timezone", cfg.PeriodTimezone)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(log.IntoContext(context.Background(), logger))
	defer cancel()

	result := cli.InitBackend(ctx, logger, cfg)
	defer func() {
		if err := result.Close(); err != nil {
			logger.Error("Failed to close backend", log.FieldError, err)
		}
	}()

	cacheManager := cache.NewManager(logger)
	if result.Cache != nil {
		cacheManager.Register("store", result.Cache)
	}

	periods := services.NewPeriodCalculator(clock.System{Location: loc})
	budgets := services.NewBudgetLedger(result.Store, periods, logger.WithComponent(log.ComponentBudget))
	expenses := services.NewExpenseLedger(result.Store, periods, budgets, logger.WithComponent(log.ComponentExpense))
	overview := services.NewOverview(budgets, expenses, periods)

	// Spend events come from the processes that record purchases; this one
	// only exports them.
	if cfg.AMQPEnabled() && cfg.SheetsEnabled() {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger.WithComponent(log.ComponentAMQP))
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		sheetsClient, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, logger.WithComponent(log.ComponentSheets))
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

		syncWorker := worker.NewSyncWorker(sheetsClient, logger.WithComponent(log.ComponentWorker))
		cacheManager.Register("delivered", syncWorker.Cleaner())

		go func() {
			if err := amqpClient.ConsumeSpend(ctx, syncWorker.HandleSpendMessage); err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.Error("Message consumption failed", log.FieldError, err)
				}
				cancel()
			}
		}()
	} else {
		logger.Info("Skipping spreadsheet sync - AMQP or GOOGLE_SPREADSHEET_ID not configured")
	}

	cacheManager.StartCleanup(cfg.CacheTTL)
	defer cacheManager.Stop()

	refresher := worker.NewRefresher(budgets, expenses, overview, cfg.RefreshInterval, logger.WithComponent(log.ComponentWorker))
	if err := refresher.Start(ctx); err != nil {
		logger.Error("Failed to start period refresher", log.FieldError, err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := refresher.Stop(shutdownCtx); err != nil {
		logger.Error("Failed to stop period refresher", log.FieldError, err)
	}
	cancel()

	logger.Info("ledger-worker stopped")
}

