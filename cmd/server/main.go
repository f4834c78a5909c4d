package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	httpapi "psrental-backend/internal/api/http"
	"psrental-backend/internal/config"
	"psrental-backend/internal/jobs"
	"psrental-backend/internal/logger"
	"psrental-backend/internal/persistence"
	"psrental-backend/internal/repository"
	"psrental-backend/internal/repository/memstore"
	"psrental-backend/internal/repository/redisstore"
	"psrental-backend/internal/repository/sqlstore"
	"psrental-backend/internal/scheduler"
	"psrental-backend/internal/service"
	"psrental-backend/internal/utils"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.Bool("run-jobs", false, "Run every scheduled job once and exit")
	flag.Parse()

	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to read .env: %v", err)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting PS Rental Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Storage configuration", "driver", cfg.Storage.Driver)

	loc, err := utils.LoadLocation(cfg.Business.Timezone)
	if err != nil {
		log.Fatalf("Failed to load timezone: %v", err)
	}

	ctx := context.Background()

	// Initialize slot storage
	repo, err := openRepository(ctx, cfg.Storage)
	if err != nil {
		logger.Error("Failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer repo.Close()
	logger.Info("Storage connection established")

	// Initialize Services
	adapter := persistence.NewAdapter(repo)
	store := service.NewRentalStore(adapter.Load(ctx), adapter,
		service.WithLocation(loc),
		service.WithPolicy(service.Policy{
			AllowOverpay:      *cfg.Business.Policy.AllowOverpay,
			MaxExtensionDays:  cfg.Business.Policy.MaxExtensionDays,
			MaxExtensionHours: cfg.Business.Policy.MaxExtensionHours,
		}),
	)
	authSvc := service.NewAuthService(store, adapter, service.AuthConfig{
		DemoEmail:        cfg.Auth.DemoEmail,
		DemoPassword:     cfg.Auth.DemoPassword,
		DeletePIN:        cfg.Auth.DeletePIN,
		SimulatedLatency: cfg.SimulatedLatency(),
		HashCost:         cfg.Auth.PasswordHashCost,
	})

	jobRunner := jobs.NewJobRunner(store, jobs.NewLogNotifier(), cfg)
	if *runOnce {
		logger.Info("Running all jobs once")
		jobRunner.RunAll()
		return
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.NewScheduler(jobRunner, loc)
		if err != nil {
			log.Fatalf("Failed to create scheduler: %v", err)
		}
		sched.Start()
	}

	// Set up HTTP server
	handler := httpapi.NewHandler(store, authSvc, cfg.PickupReminderLeadTime())
	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           httpapi.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	if sched != nil {
		sched.Stop()
	}
	logger.Info("Server stopped")
}

func openRepository(ctx context.Context, cfg config.StorageConfig) (repository.SlotRepository, error) {
	switch cfg.Driver {
	case "redis":
		return redisstore.Open(ctx, cfg.RedisURL, cfg.RedisKey)
	case "memory":
		logger.Warn("Using in-memory storage; state is lost on restart")
		return memstore.New(), nil
	default:
		store, err := sqlstore.Open(ctx, cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	}
}
