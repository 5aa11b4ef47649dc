package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"fieldops-backend/internal/clock"
	"fieldops-backend/internal/config"
	"fieldops-backend/internal/jobs"
	"fieldops-backend/internal/logger"
	"fieldops-backend/internal/repository/postgres"
	"fieldops-backend/internal/scheduler"
	"fieldops-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := pflag.StringP("config", "c", "config/config.dev.yaml", "Path to configuration file")
	runOnce := pflag.String("run-once", "", "Run a specific job once and exit (e.g., 'release-elapsed-blocks', 'all')")
	pflag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting FieldOps Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := postgres.Open(context.Background(), cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Services
	maintenance := service.NewMaintenanceService(store.UserRepository, store.AuthTokenRepository, clock.Real(cfg.Location()))

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(maintenance, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "purge-expired-tokens":
		jobRunner.PurgeExpiredTokens()
	case "release-elapsed-blocks":
		jobRunner.ReleaseElapsedBlocks()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - purge-expired-tokens\n")
		fmt.Printf("  - release-elapsed-blocks\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
