package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/allisson/barter/internal/app"
	"github.com/allisson/barter/internal/config"
)

// RunWorker consumes notification events from the broker and delivers them until
// SIGINT/SIGTERM. The metrics server runs alongside when enabled.
func RunWorker(ctx context.Context, version string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting notification worker",
		slog.String("version", version),
		slog.String("broker", cfg.BrokerDriver),
		slog.String("channel", cfg.NotificationChannel),
	)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	notificationConsumer, err := container.NotificationConsumer()
	if err != nil {
		_ = closeContainer(container, logger, cfg.ShutdownTimeout)
		return fmt.Errorf("failed to initialize notification consumer: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		_ = closeContainer(container, logger, cfg.ShutdownTimeout)
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return notificationConsumer.Run(gctx)
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

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown initiated")
		return closeContainer(container, logger, cfg.ShutdownTimeout)
	})

	return g.Wait()
}
