package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// TokenIssuer signs bearer tokens for an actor.
type TokenIssuer interface {
	Issue(actorID uuid.UUID, ttl time.Duration) (string, time.Time, error)
}

// RunIssueToken signs a bearer token for the given user id and writes it in text or JSON
// format. Intended for local development and operations; production tokens come from the
// identity service sharing AUTH_JWT_SECRET.
func RunIssueToken(
	issuer TokenIssuer,
	logger *slog.Logger,
	userID string,
	ttl time.Duration,
	format string,
	io IOTuple,
) error {
	actorID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	token, expiresAt, err := issuer.Issue(actorID, ttl)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	if format == "json" {
		result := map[string]string{
			"user_id":    actorID.String(),
			"token":      token,
			"expires_at": expiresAt.UTC().Format(time.RFC3339),
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(io.Writer, string(jsonBytes))
	} else {
		_, _ = fmt.Fprintf(io.Writer, "Token: %s\n", token)
		_, _ = fmt.Fprintf(io.Writer, "Expires at: %s\n", expiresAt.UTC().Format(time.RFC3339))
	}

	logger.Info("token issued",
		slog.String("user_id", actorID.String()),
		slog.Time("expires_at", expiresAt),
	)
	return nil
}
