package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"restoran_server/api"
	"restoran_server/api/health"
	"restoran_server/config"
	"restoran_server/database"
	"restoran_server/repository"
	"restoran_server/repository/memory"
	"restoran_server/repository/postgres"
	"restoran_server/services"
	"restoran_server/structs"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 15 * time.Second

var logger *gecho.Logger
var cfg *structs.Config

// init function to load environment variables and initialize config and logger
func init() {
	envErr := godotenv.Load()

	cfg = config.GetConfig()
	logger = config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}
}

func main() {
	ctx := context.Background()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open store", gecho.Field("error", err))
	}

	if cfg.Database.SeedFile != "" {
		if err := repository.LoadSeedFile(ctx, cfg.Database.SeedFile, store, logger); err != nil {
			logger.Fatal("Failed to load seed file", gecho.Field("error", err), gecho.Field("path", cfg.Database.SeedFile))
		}
	}

	services.RegisterMetrics()
	health.RegisterMetrics()

	sm := services.NewServiceManager(
		logger,
		cfg,
		store,
		services.NewMailer(logger, cfg),
		services.NewEventPublisher(logger, cfg.Events),
		services.NewCacheService(logger, cfg),
	)

	srv := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(cfg, sm),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port),
			gecho.Field("store", store.Driver()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-stop:
		logger.Info("Received shutdown signal", gecho.Field("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("Failed to start server", gecho.Field("error", err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", gecho.Field("error", err))
	}
	if err := sm.Shutdown(shutdownCtx); err != nil {
		logger.Error("Service shutdown failed", gecho.Field("error", err))
	}
	if err := store.Close(); err != nil {
		logger.Error("Failed to close store", gecho.Field("error", err))
	}

	logger.Info("Server stopped")
}

// openStore selects the repository backend named by STORE_DRIVER.
func openStore(ctx context.Context, cfg *structs.Config, logger *gecho.Logger) (repository.Store, error) {
	switch cfg.Database.Driver {
	case "memory":
		logger.Warn("Using in-memory store, data is lost on restart")
		return memory.New(), nil
	case "postgres", "":
		db, err := database.Connect(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := db.Migrate(logger); err != nil {
				db.Close()
				return nil, err
			}
		}
		return postgres.New(db, logger), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Database.Driver)
	}
}
