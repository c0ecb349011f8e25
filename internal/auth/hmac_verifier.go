package auth

import (
	"errors"
	"log/slog"

	"cabinet/internal/domain"
	"cabinet/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

// HMACVerifier implements JWTVerifier for tokens signed with a shared secret (HS256).
type HMACVerifier struct {
	secret []byte
	logger *slog.Logger
}

// NewHMACVerifier creates a verifier for HS256 tokens.
func NewHMACVerifier(secret string, logger *slog.Logger) (JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	return &HMACVerifier{secret: []byte(secret), logger: logger}, nil
}

// VerifyToken validates a JWT token and extracts its claims.
func (v *HMACVerifier) VerifyToken(tokenString string) (*models.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.AuthClaims{},
		func(*jwt.Token) (interface{}, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err.Error())
		return nil, domain.ErrUnauthorized
	}

	return claimsFromToken(token, v.logger)
}

// Close is a no-op.
func (v *HMACVerifier) Close() error {
	return nil
}

// SignHS256 issues a token for userID. Used by the seed tool and tests.
func SignHS256(secret, userID string, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = userID
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.AuthClaims{
		RegisteredClaims: claims,
		Role:             "authenticated",
	})
	return token.SignedString([]byte(secret))
}
