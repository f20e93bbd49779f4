// Package service verifies and issues the bearer tokens that identify the acting user.
//
// Tokens are HS256 JWTs whose subject is the user's UUID. Issuance normally happens in an
// external identity service; Issue exists for operators and tests.
package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/allisson/barter/internal/errors"
)

// ErrInvalidToken indicates a missing, malformed, expired or wrongly signed token.
var ErrInvalidToken = apperrors.Wrap(apperrors.ErrUnauthorized, "invalid token")

// TokenVerifier extracts the actor ID from a bearer token.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// JWTService signs and verifies HS256 tokens with a shared secret.
type JWTService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewJWTService creates a JWTService. An empty issuer disables the issuer check.
func NewJWTService(secret, issuer string) *JWTService {
	return &JWTService{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Verify validates the signature, expiry and issuer and returns the subject as a UUID.
func (s *JWTService) Verify(token string) (uuid.UUID, error) {
	token = strings.TrimSpace(token)
	if token == "" || len(s.secret) == 0 {
		return uuid.Nil, ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, apperrors.Wrap(ErrInvalidToken, "token expired")
		}
		return uuid.Nil, apperrors.Wrap(ErrInvalidToken, err.Error())
	}

	actorID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, apperrors.Wrap(ErrInvalidToken, "subject is not a valid user id")
	}
	return actorID, nil
}

// Issue signs a token for the actor valid for ttl.
func (s *JWTService) Issue(actorID uuid.UUID, ttl time.Duration) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, apperrors.Wrap(apperrors.ErrInvalidInput, "signing secret is not configured")
	}

	now := s.now().UTC()
	expiresAt := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   actorID.String(),
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.Must(uuid.NewV7()).String(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, apperrors.Wrap(err, "failed to sign token")
	}
	return signed, expiresAt, nil
}
