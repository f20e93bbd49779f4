package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/barter/internal/app"
	"github.com/allisson/barter/internal/config"
	"github.com/allisson/barter/internal/notification/consumer"
)

// RunServer starts the API server and, when enabled, the metrics server. With withWorker the
// notification consumer runs in the same process.
//
// Blocks until SIGINT/SIGTERM or a fatal server error, then shuts the container down within
// ShutdownTimeout: servers stop, queued notifications drain to the broker, connections close.
func RunServer(ctx context.Context, version string, withWorker bool) error {
	cfg := config.Load()
	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version), slog.Bool("with_worker", withWorker))

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	server, err := container.HTTPServer(ctx)
	if err != nil {
		_ = closeContainer(container, logger, cfg.ShutdownTimeout)
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		_ = closeContainer(container, logger, cfg.ShutdownTimeout)
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	var notificationConsumer *consumer.Consumer
	if withWorker {
		notificationConsumer, err = container.NotificationConsumer()
		if err != nil {
			_ = closeContainer(container, logger, cfg.ShutdownTimeout)
			return fmt.Errorf("failed to initialize notification consumer: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		if err := server.Start(gctx); err != nil {
			return fmt.Errorf("api server error: %w", err)
		}
		return nil
	})

	if metricsServer != nil {
		g.Go(func() error {
			defer cancel()
			if err := metricsServer.Start(gctx); err != nil {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		})
	}

	if notificationConsumer != nil {
		g.Go(func() error {
			defer cancel()
			return notificationConsumer.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown initiated")
		return closeContainer(container, logger, cfg.ShutdownTimeout)
	})

	return g.Wait()
}
