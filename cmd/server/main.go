package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dotation_simulation_service/internal/app"
	"dotation_simulation_service/internal/domain/notify"
	"dotation_simulation_service/internal/infra/config"
	idb "dotation_simulation_service/internal/infra/database"
	"dotation_simulation_service/internal/infra/httpapi"
	"dotation_simulation_service/internal/infra/logger"
	"dotation_simulation_service/internal/infra/scheduler"
	"dotation_simulation_service/internal/infra/telegram"
)

func main() {
	fmt.Println("Dotation Simulation Service starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s", cfg.LogLevel, cfg.Environment)

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	// Initialize Repositories
	simulationRepo := idb.NewPostgresSimulationRepository(db)
	projetRepo := idb.NewPostgresProjetRepository(db)
	log.Info("Repositories initialized.")

	// Initialize the admin alert channel. Without a token the channel is
	// disabled and commits are only logged.
	var notifier notify.Client = notify.Disabled{}
	if cfg.TelegramToken != "" {
		adapter, err := telegram.NewTelebotAdapter(cfg.TelegramToken)
		if err != nil {
			log.Fatalf("FATAL: Could not create Telegram adapter: %v", err)
		}
		notifier = adapter
		log.Info("Telegram admin alert channel initialized.")
	} else {
		log.Info("No TELEGRAM_TOKEN configured. Admin alert channel disabled.")
	}

	// Initialize Services
	simulationService := app.NewSimulationProjetService(simulationRepo, projetRepo, notifier, log, cfg.AdminChatID)
	dotationService := app.NewDotationService(projetRepo, simulationRepo, log)
	log.Info("Application services initialized.")

	// Initialize the nightly simulation refresh
	refreshScheduler := scheduler.NewRefreshScheduler(simulationService, log, cfg.CronSpecRefresh)
	if err := refreshScheduler.Start(); err != nil {
		log.Fatalf("FATAL: Could not start refresh scheduler: %v", err)
	}

	// Initialize HTTP host adapter
	server := httpapi.NewServer(cfg.HTTPAddr, simulationService, dotationService, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()

	log.Info("Application setup complete. Server and scheduler are running.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	log.Info("Shutting down application...")
	refreshScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}
	// db.Close() is handled by defer
	log.Info("Application shut down gracefully.")
}
