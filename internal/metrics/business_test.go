package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertMetricLine matches a Prometheus sample while tolerating the otel scope labels the
// exporter adds.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, StatusSuccess, StatusFor(nil))
	assert.Equal(t, StatusError, StatusFor(errors.New("boom")))
}

func TestBusinessMetrics_Export(t *testing.T) {
	provider, err := NewProvider("barter_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "barter_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "offers", "create_offer", StatusSuccess)
	bm.RecordOperation(ctx, "offers", "create_offer", StatusSuccess)
	bm.RecordOperation(ctx, "offers", "update_status", StatusError)
	bm.RecordOperation(ctx, "notifications", "publish", StatusDropped)
	bm.RecordDuration(ctx, "offers", "create_offer", 40*time.Millisecond, StatusSuccess)
	bm.RecordDuration(ctx, "offers", "create_offer", 60*time.Millisecond, StatusSuccess)

	output := scrape(t, provider)

	assertMetricLine(t, output, `barter_test_operations_total`,
		`domain="offers".*operation="create_offer".*status="success"`, `2`)
	assertMetricLine(t, output, `barter_test_operations_total`,
		`domain="offers".*operation="update_status".*status="error"`, `1`)
	assertMetricLine(t, output, `barter_test_operations_total`,
		`domain="notifications".*operation="publish".*status="dropped"`, `1`)
	assertMetricLine(t, output, `barter_test_operation_duration_seconds_count`,
		`domain="offers".*operation="create_offer".*status="success"`, `2`)
}

func TestNoOpBusinessMetrics(t *testing.T) {
	bm := NewNoOpBusinessMetrics()
	assert.IsType(t, &NoOpBusinessMetrics{}, bm)

	assert.NotPanics(t, func() {
		bm.RecordOperation(context.Background(), "offers", "create_offer", StatusSuccess)
		bm.RecordDuration(context.Background(), "offers", "create_offer", time.Second, StatusError)
	})
}
