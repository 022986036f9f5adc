// Package server runs the HTTP listener and the background workers around
// one kernel.App until the process is asked to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/shopadmin/config"
	"github.com/shashiranjanraj/shopadmin/internal/kernel"
	grpcserver "github.com/shashiranjanraj/shopadmin/pkg/grpc"
	"github.com/shashiranjanraj/shopadmin/pkg/logger"
	"github.com/shashiranjanraj/shopadmin/pkg/schedule"
)

const shutdownTimeout = 15 * time.Second

// Start boots the application and serves until SIGINT or SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if uri := config.LogMongoURI(); uri != "" {
		closeLogs, err := logger.EnableMongo(uri, config.LogMongoDB())
		if err != nil {
			logger.Warn("mongo log sink disabled", "error", err)
		} else {
			defer closeLogs()
		}
	}

	app, err := kernel.Boot(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	return Run(ctx, app, ":"+config.AppPort())
}

// Run serves app on addr until ctx is done, then drains in-flight requests
// and stops the workers.
func Run(ctx context.Context, app *kernel.App, addr string) error {
	jobs := schedule.New()
	jobs.Every("assets:prune", config.AssetPruneInterval(), func(ctx context.Context) error {
		removed, err := app.Catalog.PruneImages(ctx)
		if err == nil && len(removed) > 0 {
			logger.Info("pruned unreferenced images", "count", len(removed))
		}
		return err
	})

	ctx, cancel := context.WithCancel(ctx)
	// Workers must see the cancel before Wait.
	defer jobs.Wait()
	defer cancel()

	go app.Hub.Run(ctx)
	go app.Limiter.Sweep(ctx, time.Minute)
	jobs.Start(ctx)

	if port := config.GRPCPort(); port != "" {
		lis, err := net.Listen("tcp", ":"+port)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		gs := grpcserver.New(app.Ping)
		go func() {
			if err := gs.Serve(lis); err != nil {
				logger.Error("gRPC server stopped", "error", err)
			}
		}()
		defer gs.Stop()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
