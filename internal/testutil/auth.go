package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Test credentials shared by router-level tests.
const (
	TestJWTSecret   = "test-jwt-secret"
	TestJWTAudience = "authenticated"
)

// NewAccessToken signs an HS256 token for userID the way the identity provider does.
func NewAccessToken(t *testing.T, userID string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":  userID,
		"aud":  TestJWTAudience,
		"role": "authenticated",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign access token: %v", err)
	}
	return token
}
