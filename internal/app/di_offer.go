package app

import (
	"context"
	"fmt"

	authService "github.com/allisson/barter/internal/auth/service"
	"github.com/allisson/barter/internal/http"
	offerHTTP "github.com/allisson/barter/internal/offer/http"
	offerRepository "github.com/allisson/barter/internal/offer/repository"
	offerUseCase "github.com/allisson/barter/internal/offer/usecase"
)

// OfferRepository returns the trade offer repository for the configured database driver.
func (c *Container) OfferRepository() (offerUseCase.OfferRepository, error) {
	c.offerRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.setInitError("offerRepo", fmt.Errorf("failed to get database for offer repository: %w", err))
			return
		}
		c.offerRepo, err = dbDriverSwitch[offerUseCase.OfferRepository](
			c.config.DBDriver,
			func() offerUseCase.OfferRepository { return offerRepository.NewMySQLOfferRepository(db) },
			func() offerUseCase.OfferRepository { return offerRepository.NewPostgreSQLOfferRepository(db) },
		)
		if err != nil {
			c.setInitError("offerRepo", err)
		}
	})
	if err := c.initError("offerRepo"); err != nil {
		return nil, err
	}
	return c.offerRepo, nil
}

// OfferUseCase returns the trade offer use case, wrapped with metrics when enabled.
func (c *Container) OfferUseCase() (offerUseCase.OfferUseCase, error) {
	c.offerUseCaseInit.Do(func() {
		var err error
		c.offerUseCase, err = c.initOfferUseCase()
		if err != nil {
			c.setInitError("offerUseCase", err)
		}
	})
	if err := c.initError("offerUseCase"); err != nil {
		return nil, err
	}
	return c.offerUseCase, nil
}

// JWTService returns the bearer token verifier and issuer.
func (c *Container) JWTService() *authService.JWTService {
	c.jwtServiceInit.Do(func() {
		c.jwtService = authService.NewJWTService(c.config.AuthJWTSecret, c.config.AuthJWTIssuer)
	})
	return c.jwtService
}

// OfferHandler returns the HTTP handler for trade offers.
func (c *Container) OfferHandler() (*offerHTTP.OfferHandler, error) {
	c.offerHandlerInit.Do(func() {
		useCase, err := c.OfferUseCase()
		if err != nil {
			c.setInitError("offerHandler", fmt.Errorf("failed to get offer use case for offer handler: %w", err))
			return
		}
		c.offerHandler = offerHTTP.NewOfferHandler(useCase, c.Logger())
	})
	if err := c.initError("offerHandler"); err != nil {
		return nil, err
	}
	return c.offerHandler, nil
}

// HTTPServer returns the API server with its router configured. ctx bounds the lifetime of
// background helpers started by the router.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer(ctx)
		if err != nil {
			c.setInitError("httpServer", err)
			return
		}
		c.mu.Lock()
		c.httpServer = server
		c.mu.Unlock()
	})
	if err := c.initError("httpServer"); err != nil {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus scrape server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.setInitError("metricsServer", fmt.Errorf("failed to get metrics provider for metrics server: %w", err))
			return
		}
		if provider == nil {
			return
		}
		server := http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider)
		c.mu.Lock()
		c.metricsServer = server
		c.mu.Unlock()
	})
	if err := c.initError("metricsServer"); err != nil {
		return nil, err
	}
	return c.metricsServer, nil
}

// initOfferUseCase creates the offer use case with all its dependencies.
func (c *Container) initOfferUseCase() (offerUseCase.OfferUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for offer use case: %w", err)
	}

	offerRepo, err := c.OfferRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get offer repository for offer use case: %w", err)
	}

	itemDirectory, err := c.ItemDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get item directory for offer use case: %w", err)
	}

	userDirectory, err := c.UserDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get user directory for offer use case: %w", err)
	}

	eventPublisher, err := c.EventPublisher()
	if err != nil {
		return nil, fmt.Errorf("failed to get event publisher for offer use case: %w", err)
	}

	baseUseCase := offerUseCase.NewOfferUseCase(
		txManager,
		offerRepo,
		itemDirectory,
		userDirectory,
		eventPublisher,
		c.TemplateCatalog(),
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for offer use case: %w", err)
		}
		return offerUseCase.NewOfferUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	if c.config.AuthJWTSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET must be set to serve the API")
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	offerHandler, err := c.OfferHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get offer handler for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(ctx, c.config, offerHandler, c.JWTService(), metricsProvider)

	return server, nil
}
