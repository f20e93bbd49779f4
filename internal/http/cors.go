package http

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const corsMaxAge = 12 * time.Hour

// createCORSMiddleware builds the CORS middleware for browser clients. It returns nil when
// CORS is disabled or no usable origin is configured. A lone "*" allows every origin
// without credentials.
func createCORSMiddleware(enabled bool, allowOrigins string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH"},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: []string{"X-Request-Id", "Retry-After"},
		MaxAge:        corsMaxAge,
	}

	if strings.TrimSpace(allowOrigins) == "*" {
		logger.Warn("CORS allows every origin; credentials are disabled")
		config.AllowAllOrigins = true
		return cors.New(config)
	}

	origins, rejected := parseOrigins(allowOrigins)
	for _, origin := range rejected {
		logger.Warn("ignoring invalid CORS origin", slog.String("origin", origin))
	}
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no valid origins configured")
		return nil
	}

	logger.Info("CORS enabled", slog.Any("origins", origins))
	config.AllowOrigins = origins
	config.AllowCredentials = true
	return cors.New(config)
}

// parseOrigins splits a comma-separated origin list. Entries must be bare http or https
// origins; anything else is returned in rejected.
func parseOrigins(raw string) (origins, rejected []string) {
	for _, part := range strings.Split(raw, ",") {
		origin := strings.TrimRight(strings.TrimSpace(part), "/")
		if origin == "" {
			continue
		}

		u, err := url.Parse(origin)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" || u.Path != "" ||
			u.RawQuery != "" {
			rejected = append(rejected, origin)
			continue
		}
		origins = append(origins, origin)
	}
	return origins, rejected
}
