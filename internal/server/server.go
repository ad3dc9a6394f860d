// Package server owns the process lifecycle: config, logging sink, storage
// clients, the HTTP listener, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/patial10/Construction-App/config"
	"github.com/patial10/Construction-App/internal/kernel"
	"github.com/patial10/Construction-App/pkg/cache"
	"github.com/patial10/Construction-App/pkg/database"
	"github.com/patial10/Construction-App/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// Run boots the service and blocks until SIGINT/SIGTERM, then drains the
// HTTP server and tears down the storage clients in order.
func Run() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// One Mongo client for the whole process, initialised here, closed on
	// shutdown, and passed down explicitly.
	db, err := database.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			logger.Error("mongo close", "error", err)
		}
	}()

	// Optional async Mongo log sink fanned out alongside stdout.
	if config.MongoLogSink() {
		sink := logger.NewMongoHandler(db.Logs())
		defer sink.Close()
		logger.Use(slog.New(logger.NewMultiHandler(logger.L.Handler(), sink)))
	}

	// Redis is best-effort: the service runs uncached without it.
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, running uncached", "error", err)
	}
	defer cache.Close() //nolint:errcheck

	handler, err := kernel.Handler(db.Database())
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return nil
}
