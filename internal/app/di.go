// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	authService "github.com/allisson/barter/internal/auth/service"
	"github.com/allisson/barter/internal/broker/rabbitmq"
	"github.com/allisson/barter/internal/config"
	"github.com/allisson/barter/internal/database"
	directoryRepository "github.com/allisson/barter/internal/directory/repository"
	"github.com/allisson/barter/internal/http"
	"github.com/allisson/barter/internal/metrics"
	"github.com/allisson/barter/internal/notification/consumer"
	"github.com/allisson/barter/internal/notification/publisher"
	"github.com/allisson/barter/internal/notification/template"
	offerHTTP "github.com/allisson/barter/internal/offer/http"
	offerUseCase "github.com/allisson/barter/internal/offer/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Managers
	txManager database.TxManager

	// Repositories
	itemDirectory offerUseCase.ItemDirectory
	userDirectory offerUseCase.UserDirectory
	offerRepo     offerUseCase.OfferRepository

	// Notification pipeline
	brokerClosers []func() error
	rabbitClient  *rabbitmq.Client
	producer      publisher.Producer
	subscriber    consumer.Subscriber
	publisher     *publisher.AsyncPublisher
	catalog       *template.Catalog
	channel       consumer.Channel
	consumer      *consumer.Consumer

	// Use Cases
	offerUseCase offerUseCase.OfferUseCase

	// Auth
	jwtService *authService.JWTService

	// Handlers, Servers and Workers
	offerHandler  *offerHTTP.OfferHandler
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	txManagerInit       sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	itemDirectoryInit   sync.Once
	userDirectoryInit   sync.Once
	offerRepoInit       sync.Once
	rabbitClientInit    sync.Once
	producerInit        sync.Once
	subscriberInit      sync.Once
	publisherInit       sync.Once
	catalogInit         sync.Once
	channelInit         sync.Once
	consumerInit        sync.Once
	offerUseCaseInit    sync.Once
	jwtServiceInit      sync.Once
	offerHandlerInit    sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	errMu               sync.Mutex
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

func (c *Container) setInitError(name string, err error) {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	c.initErrors[name] = err
}

func (c *Container) initError(name string) error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.initErrors[name]
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.setInitError("db", err)
			return
		}
		c.mu.Lock()
		c.db = db
		c.mu.Unlock()
	})
	if err := c.initError("db"); err != nil {
		return nil, err
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		var err error
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.setInitError("txManager", err)
		}
	})
	if err := c.initError("txManager"); err != nil {
		return nil, err
	}
	return c.txManager, nil
}

// MetricsProvider returns the OpenTelemetry provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.setInitError("metricsProvider", fmt.Errorf("failed to create metrics provider: %w", err))
			return
		}
		c.mu.Lock()
		c.metricsProvider = provider
		c.mu.Unlock()
	})
	if err := c.initError("metricsProvider"); err != nil {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder, a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		var err error
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.setInitError("businessMetrics", err)
		}
	})
	if err := c.initError("businessMetrics"); err != nil {
		return nil, err
	}
	return c.businessMetrics, nil
}

// Shutdown performs cleanup of all initialized resources.
//
// Order matters: servers stop accepting requests, the publisher drains its queues into the
// broker, then broker connections, the metrics provider and the database are closed.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.publisher != nil {
		if err := c.publisher.Close(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("event publisher drain: %w", err))
		}
	}

	for i := len(c.brokerClosers) - 1; i >= 0; i-- {
		if err := c.brokerClosers[i](); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("broker close: %w", err))
		}
	}
	c.brokerClosers = nil

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(shutdownErrors...))
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// dbDriverSwitch picks the implementation matching the configured database driver.
func dbDriverSwitch[T any](driver string, mysql, postgres func() T) (T, error) {
	switch driver {
	case "mysql":
		return mysql(), nil
	case "postgres":
		return postgres(), nil
	default:
		var zero T
		return zero, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// ItemDirectory returns the item directory for the configured database driver.
func (c *Container) ItemDirectory() (offerUseCase.ItemDirectory, error) {
	c.itemDirectoryInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.setInitError("itemDirectory", fmt.Errorf("failed to get database for item directory: %w", err))
			return
		}
		c.itemDirectory, err = dbDriverSwitch[offerUseCase.ItemDirectory](
			c.config.DBDriver,
			func() offerUseCase.ItemDirectory { return directoryRepository.NewMySQLItemRepository(db) },
			func() offerUseCase.ItemDirectory { return directoryRepository.NewPostgreSQLItemRepository(db) },
		)
		if err != nil {
			c.setInitError("itemDirectory", err)
		}
	})
	if err := c.initError("itemDirectory"); err != nil {
		return nil, err
	}
	return c.itemDirectory, nil
}

// UserDirectory returns the user directory for the configured database driver.
func (c *Container) UserDirectory() (offerUseCase.UserDirectory, error) {
	c.userDirectoryInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.setInitError("userDirectory", fmt.Errorf("failed to get database for user directory: %w", err))
			return
		}
		c.userDirectory, err = dbDriverSwitch[offerUseCase.UserDirectory](
			c.config.DBDriver,
			func() offerUseCase.UserDirectory { return directoryRepository.NewMySQLUserRepository(db) },
			func() offerUseCase.UserDirectory { return directoryRepository.NewPostgreSQLUserRepository(db) },
		)
		if err != nil {
			c.setInitError("userDirectory", err)
		}
	})
	if err := c.initError("userDirectory"); err != nil {
		return nil, err
	}
	return c.userDirectory, nil
}
