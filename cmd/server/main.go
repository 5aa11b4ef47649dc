package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	grpcapi "fieldops-backend/internal/api/grpc"
	httpapi "fieldops-backend/internal/api/http"
	"fieldops-backend/internal/cache"
	"fieldops-backend/internal/clock"
	"fieldops-backend/internal/config"
	"fieldops-backend/internal/logger"
	"fieldops-backend/internal/repository/postgres"
	"fieldops-backend/internal/security"
	"fieldops-backend/internal/service"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Parse command-line flags
	configPath := pflag.StringP("config", "c", "config/config.dev.yaml", "Path to configuration file")
	migrate := pflag.Bool("migrate", false, "Apply the database schema before serving")
	pflag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting FieldOps backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "http", cfg.GetHTTPAddress(), "grpc", cfg.GetGRPCAddress(), "time_zone", cfg.Location().String())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if *migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
		logger.Info("Database schema applied")
	}

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	clk := clock.Real(cfg.Location())
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.SessionTokenTTL(), clk)
	hasher := security.NewBcryptHasher(security.PasswordCost)

	// Initialize claims cache
	var claimsCache cache.Cache = cache.Noop{}
	if cfg.Cache.RedisAddr != "" {
		redisCache, err := cache.NewRedis(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisCache.Close()
		claimsCache = redisCache
		logger.Info("Redis claims cache enabled", "addr", cfg.Cache.RedisAddr)
	}

	var validator service.SessionValidator
	if cfg.Auth.RevalidateClaims {
		validator = service.NewSessionValidator(store.UserRepository, claimsCache, cfg.ClaimsCacheTTL())
	}

	// Initialize outbound notifications
	emailSvc := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	pushSvc, err := service.NewPushService(ctx, cfg.Push.CredentialsFile, cfg.Push.Topic)
	if err != nil {
		log.Fatalf("Failed to initialize push notifications: %v", err)
	}

	// Initialize Services
	authSvc := service.NewAuthService(
		store.UserRepository,
		store.WorkSessionRepository,
		store.AuthTokenRepository,
		store,
		hasher,
		tokenManager,
		emailSvc,
		pushSvc,
		clk,
		cfg.Server.BaseURL,
	)
	sessionSvc := service.NewWorkSessionService(store.UserRepository, store.WorkSessionRepository, store, clk)
	locationSvc := service.NewLocationService(store.WorkSessionRepository, store.LocationRepository, store.ReportRepository, clk)
	projectSvc := service.NewProjectService(store.ProjectRepository, store.UserRepository, clk)
	userSvc := service.NewUserService(store.UserRepository, hasher, clk)
	dashboardSvc := service.NewDashboardService(store.ReportRepository, clk)

	// HTTP server
	httpServer := &http.Server{
		Addr: cfg.GetHTTPAddress(),
		Handler: httpapi.NewRouter(httpapi.Deps{
			Auth:         authSvc,
			WorkSessions: sessionSvc,
			Locations:    locationSvc,
			Projects:     projectSvc,
			Users:        userSvc,
			Dashboard:    dashboardSvc,
			Tokens:       tokenManager,
			Validator:    validator,
			Ping:         db.PingContext,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// gRPC server
	grpcServer := grpcapi.NewServer(tokenManager, validator, dashboardSvc)
	lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}
	go grpcServer.MonitorHealth(ctx, db.PingContext, 30*time.Second)

	errCh := make(chan error, 2)
	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		logger.Info("gRPC server listening", "address", cfg.GetGRPCAddress())
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		logger.Error("Server error", "error", err)
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("FieldOps backend stopped")
}
