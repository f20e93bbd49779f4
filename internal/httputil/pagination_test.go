package httputil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/barter/internal/errors"
	"github.com/allisson/barter/internal/httputil"
)

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	const (
		offsetErr = "offset must be a non-negative integer: invalid input"
		limitErr  = "limit must be between 1 and 100: invalid input"
	)

	tests := []struct {
		query      string
		wantOffset int
		wantLimit  int
		wantErr    string
	}{
		{query: "", wantOffset: 0, wantLimit: httputil.DefaultLimit},
		{query: "offset=10&limit=20", wantOffset: 10, wantLimit: 20},
		{query: "offset=5", wantOffset: 5, wantLimit: httputil.DefaultLimit},
		{query: "limit=1", wantOffset: 0, wantLimit: 1},
		{query: "limit=100", wantOffset: 0, wantLimit: httputil.MaxLimit},
		{query: "status=pending&limit=2", wantOffset: 0, wantLimit: 2},
		{query: "offset=-1", wantErr: offsetErr},
		{query: "offset=abc", wantErr: offsetErr},
		{query: "offset=", wantErr: offsetErr},
		{query: "limit=0", wantErr: limitErr},
		{query: "limit=101", wantErr: limitErr},
		{query: "limit=1.5", wantErr: limitErr},
	}

	for _, tt := range tests {
		t.Run("?"+tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/v1/offers?"+tt.query, nil)

			offset, limit, err := httputil.ParsePagination(c)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
				assert.Zero(t, offset)
				assert.Zero(t, limit)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}
