// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/barter/internal/errors"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

var statusByCode = map[string]int{
	"not_found":     http.StatusNotFound,
	"conflict":      http.StatusConflict,
	"invalid_input": http.StatusBadRequest,
	"invalid_state": http.StatusBadRequest,
	"unauthorized":  http.StatusUnauthorized,
	"forbidden":     http.StatusForbidden,
}

// Messages that would leak internals or probe results are replaced with fixed text.
var fixedMessages = map[string]string{
	"conflict":             "A conflict occurred with existing data",
	"unauthorized":         "Authentication is required",
	apperrors.CodeInternal: "An internal error occurred",
}

// HandleErrorGin maps domain errors to HTTP status codes and writes a JSON error body.
// Unknown errors become 500 without exposing details.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	code := apperrors.Code(err)
	statusCode, ok := statusByCode[code]
	if !ok {
		statusCode = http.StatusInternalServerError
	}

	errorResponse := ErrorResponse{Error: code, Message: err.Error()}
	if message, ok := fixedMessages[code]; ok {
		errorResponse.Message = message
	}

	if logger != nil {
		level := slog.LevelWarn
		if statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorResponse.Error),
			slog.Any("error", err),
		)
	}

	c.AbortWithStatusJSON(statusCode, errorResponse)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}
