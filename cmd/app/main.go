package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deliveryingest/cmd"
	"deliveryingest/internal/adapters/out/postgres"
	"deliveryingest/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	logger := newLogger(configs)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB := mustOpenDatabase(configs)

	app, err := cmd.NewCompositionRoot(ctx, configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}

	fetchJob, err := app.CreatePartnerFetchJob(configs.SchedulerCron)
	if err != nil {
		log.Fatalf("Error creating partner fetch job: %v", err)
	}

	jobManager := jobs.NewJobManager(logger, fetchJob)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}

	router, err := app.CreateRouter(fetchJob)
	if err != nil {
		log.Fatalf("Error creating router: %v", err)
	}

	runWebServer(ctx, router, configs.HTTPPort, logger)

	jobManager.StopAll()
	if err = app.Close(); err != nil {
		logger.Error("Failed to close connections", "error", err)
	}
	if sqlDB, dbErr := gormDB.DB(); dbErr == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Application shutdown complete")
}

func newLogger(configs cmd.Config) *slog.Logger {
	level, _ := configs.SlogLevel()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func mustOpenDatabase(configs cmd.Config) *gorm.DB {
	gormDB, err := postgres.Open(configs.DSN())
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err = postgres.AutoMigrate(gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
	return gormDB
}

// runWebServer serves until ctx is cancelled, then drains in-flight requests.
func runWebServer(ctx context.Context, e *echo.Echo, port string, logger *slog.Logger) {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "port", port)
		errCh <- e.Start(fmt.Sprintf("0.0.0.0:%s", port))
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
		return
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
}
