package auth

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"cabinet/internal/domain"
	"cabinet/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHMACVerifier_VerifyToken(t *testing.T) {
	const secret = "test-secret"

	verifier, err := NewHMACVerifier(secret, discardLogger())
	if err != nil {
		t.Fatalf("NewHMACVerifier: %v", err)
	}
	defer verifier.Close()

	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	valid, err := SignHS256(secret, "user-a", jwt.RegisteredClaims{ExpiresAt: future})
	if err != nil {
		t.Fatal(err)
	}
	expired, _ := SignHS256(secret, "user-a", jwt.RegisteredClaims{ExpiresAt: past})
	wrongSecret, _ := SignHS256("other", "user-a", jwt.RegisteredClaims{ExpiresAt: future})
	noSubject, _ := SignHS256(secret, "", jwt.RegisteredClaims{ExpiresAt: future})
	anon, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-a", ExpiresAt: future},
		Role:             "anon",
	}).SignedString([]byte(secret))
	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, &models.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-a", ExpiresAt: future},
	}).SignedString([]byte(secret))

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid", token: valid},
		{name: "expired", token: expired, wantErr: true},
		{name: "wrong secret", token: wrongSecret, wantErr: true},
		{name: "missing subject", token: noSubject, wantErr: true},
		{name: "anonymous role", token: anon, wantErr: true},
		{name: "unexpected algorithm", token: hs512, wantErr: true},
		{name: "garbage", token: "not-a-jwt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := verifier.VerifyToken(tt.token)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrUnauthorized) {
					t.Fatalf("err = %v, want ErrUnauthorized", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if claims.GetUserID() != "user-a" {
				t.Errorf("user id = %q, want user-a", claims.GetUserID())
			}
		})
	}
}

func TestNewVerifiers_RejectEmptyConfig(t *testing.T) {
	if _, err := NewHMACVerifier("", discardLogger()); err == nil {
		t.Error("expected error for empty secret")
	}
	if _, err := NewJWKSVerifier("", discardLogger()); err == nil {
		t.Error("expected error for empty JWKS URL")
	}
}
