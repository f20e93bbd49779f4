package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authService "github.com/allisson/barter/internal/auth/service"
	"github.com/allisson/barter/internal/config"
	"github.com/allisson/barter/internal/metrics"
	offerDomain "github.com/allisson/barter/internal/offer/domain"
	offerHTTP "github.com/allisson/barter/internal/offer/http"
	"github.com/allisson/barter/internal/offer/usecase/mocks"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTestServer() *Server {
	return NewServer(nil, "localhost", 8080, discardLogger())
}

func testConfig() *config.Config {
	return &config.Config{
		MetricsNamespace:        "barter_test",
		RateLimitEnabled:        true,
		RateLimitRequestsPerSec: 100,
		RateLimitBurst:          100,
	}
}

// setupFullRouter wires the real router with a mocked offer use case.
func setupFullRouter(t *testing.T, cfg *config.Config) (*Server, *mocks.MockOfferUseCase, *authService.JWTService) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	mockUseCase := mocks.NewMockOfferUseCase(t)
	jwtService := authService.NewJWTService("router-secret", "barter")
	server := createTestServer()
	server.SetupRouter(ctx, cfg, offerHTTP.NewOfferHandler(mockUseCase, discardLogger()), jwtService, nil)

	return server, mockUseCase, jwtService
}

func TestHealthHandler(t *testing.T) {
	server := createTestServer()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	server.healthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	t.Run("NilDB", func(t *testing.T) {
		server := createTestServer()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"status":"not_ready","components":{"database":"error"}}`, w.Body.String())
	})

	t.Run("PingOK", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		sqlMock.ExpectPing()

		server := NewServer(db, "localhost", 8080, discardLogger())

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ready","components":{"database":"ok"}}`, w.Body.String())
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("PingFails", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		sqlMock.ExpectPing().WillReturnError(assert.AnError)

		server := NewServer(db, "localhost", 8080, discardLogger())

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestCustomLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string { return "req-123" })))
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusTeapot, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test?x=1", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "/test", entry["path"])
	assert.Equal(t, "x=1", entry["query"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(discardLogger()))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRouter_HealthAndRequestID(t *testing.T) {
	server, _, _ := setupFullRouter(t, testConfig())

	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	requestID, err := uuid.Parse(w.Header().Get("X-Request-Id"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, requestID)
}

func TestRouter_OffersRequireAuthentication(t *testing.T) {
	server, _, _ := setupFullRouter(t, testConfig())

	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/offers", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_GetOfferWithToken(t *testing.T) {
	server, mockUseCase, jwtService := setupFullRouter(t, testConfig())

	actorID := uuid.Must(uuid.NewV7())
	token, _, err := jwtService.Issue(actorID, time.Minute)
	require.NoError(t, err)

	offer := &offerDomain.TradeOffer{
		ID:          uuid.Must(uuid.NewV7()),
		OffererID:   actorID,
		RecipientID: uuid.Must(uuid.NewV7()),
		Status:      offerDomain.StatusPending,
	}
	mockUseCase.On("GetOffer", mock.Anything, offer.ID).Return(offer, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/offers/"+offer.ID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), offer.ID.String())
}

func TestRouter_PatchStatusUsesActorFromToken(t *testing.T) {
	server, mockUseCase, jwtService := setupFullRouter(t, testConfig())

	actorID := uuid.Must(uuid.NewV7())
	offerID := uuid.Must(uuid.NewV7())
	token, _, err := jwtService.Issue(actorID, time.Minute)
	require.NoError(t, err)

	mockUseCase.On("UpdateStatus", mock.Anything, actorID, offerID, offerDomain.StatusRejected).
		Return(nil, offerDomain.ErrOfferNotPending).
		Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(
		http.MethodPatch,
		"/v1/offers/"+offerID.String()+"/status",
		bytes.NewBufferString(`{"status":"rejected"}`),
	)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_state")
}

func TestRouter_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRequestsPerSec = 0.1
	cfg.RateLimitBurst = 1
	server, mockUseCase, jwtService := setupFullRouter(t, cfg)

	token, _, err := jwtService.Issue(uuid.Must(uuid.NewV7()), time.Minute)
	require.NoError(t, err)
	mockUseCase.On("ListOffers", mock.Anything, mock.Anything).
		Return([]*offerDomain.TradeOffer{}, nil).
		Once()

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/offers", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		server.GetHandler().ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRouter_NotFoundEndpoint(t *testing.T) {
	server, _, _ := setupFullRouter(t, testConfig())

	for _, path := range []string{"/nonexistent", "/metrics"} {
		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestServer_StartWithoutRouter(t *testing.T) {
	server := createTestServer()
	assert.Error(t, server.Start(context.Background()))
}

func TestServer_ShutdownGracefully(t *testing.T) {
	server := NewServer(nil, "127.0.0.1", 0, discardLogger())
	server.router = gin.New()

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background())
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(shutdownCtx))

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestMetricsServer_Endpoints(t *testing.T) {
	provider, err := metrics.NewProvider("barter_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 8081, discardLogger(), provider)
	require.NotNil(t, metricsServer)

	w := httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	w = httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
