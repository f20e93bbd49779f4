package http

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authService "github.com/allisson/barter/internal/auth/service"
	apperrors "github.com/allisson/barter/internal/errors"
	"github.com/allisson/barter/internal/httputil"
)

const bearerScheme = "bearer "

var (
	errMissingHeader   = errors.New("missing authorization header")
	errMalformedHeader = errors.New("authorization header is not a bearer token")
	errEmptyToken      = errors.New("empty bearer token")
)

// bearerToken extracts the token from an "Authorization: Bearer <token>" header. The scheme is
// matched case-insensitively.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	if len(header) < len(bearerScheme) || !strings.EqualFold(header[:len(bearerScheme)], bearerScheme) {
		return "", errMalformedHeader
	}
	token := strings.TrimSpace(header[len(bearerScheme):])
	if token == "" {
		return "", errEmptyToken
	}
	return token, nil
}

func authenticate(verifier authService.TokenVerifier, header string) (uuid.UUID, error) {
	token, err := bearerToken(header)
	if err != nil {
		return uuid.Nil, err
	}
	return verifier.Verify(token)
}

// AuthenticationMiddleware verifies the bearer token and stores its subject as the acting user,
// available to handlers through GetActor. Every failure is a 401 with a WWW-Authenticate
// challenge; the reason is only logged.
func AuthenticationMiddleware(verifier authService.TokenVerifier, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, err := authenticate(verifier, c.GetHeader("Authorization"))
		if err == nil {
			c.Request = c.Request.WithContext(WithActor(c.Request.Context(), actorID))
			logger.Debug("authentication successful", slog.String("actor_id", actorID.String()))
			c.Next()
			return
		}

		logger.Debug("authentication failed", slog.String("reason", err.Error()))
		c.Header("WWW-Authenticate", `Bearer realm="barter"`)
		if !apperrors.Is(err, apperrors.ErrUnauthorized) {
			err = apperrors.Wrap(apperrors.ErrUnauthorized, err.Error())
		}
		httputil.HandleErrorGin(c, err, logger)
	}
}
