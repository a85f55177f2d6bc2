package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	testSecret   = "test-secret"
	testAudience = "authenticated"
)

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func validClaims(sub string) *JWTClaims {
	return &JWTClaims{
		Email: "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func setupAuthRouter() *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(testSecret, testAudience), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(UserIDKey)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	router := setupAuthRouter()

	t.Run("valid_token", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, testSecret, validClaims("user-1"))
		rec := doRequest(router, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + token})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got, _ := parseBody(t, rec)["user_id"].(string); got != "user-1" {
			t.Errorf("expected user-1, got %q", got)
		}
	})

	t.Run("query_token", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, testSecret, validClaims("user-2"))
		rec := doRequest(router, http.MethodGet, "/me?access_token="+token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("missing_header", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/me", nil)
		if rec.Code != http.StatusUnauthorized || errorCode(t, rec) != "UNAUTHORIZED" {
			t.Errorf("expected 401 UNAUTHORIZED, got %d", rec.Code)
		}
	})

	t.Run("malformed_header", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/me", map[string]string{"Authorization": "Token abc"})
		if rec.Code != http.StatusUnauthorized || errorCode(t, rec) != "UNAUTHORIZED" {
			t.Errorf("expected 401 UNAUTHORIZED, got %d", rec.Code)
		}
	})

	rejected := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{"wrong_secret", func(t *testing.T) string {
			return signToken(t, jwt.SigningMethodHS256, "other", validClaims("user-1"))
		}},
		{"wrong_audience", func(t *testing.T) string {
			c := validClaims("user-1")
			c.Audience = jwt.ClaimStrings{"anon"}
			return signToken(t, jwt.SigningMethodHS256, testSecret, c)
		}},
		{"expired", func(t *testing.T) string {
			c := validClaims("user-1")
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
			return signToken(t, jwt.SigningMethodHS256, testSecret, c)
		}},
		{"no_expiry", func(t *testing.T) string {
			c := validClaims("user-1")
			c.ExpiresAt = nil
			return signToken(t, jwt.SigningMethodHS256, testSecret, c)
		}},
		{"no_subject", func(t *testing.T) string {
			return signToken(t, jwt.SigningMethodHS256, testSecret, validClaims(""))
		}},
		{"other_algorithm", func(t *testing.T) string {
			return signToken(t, jwt.SigningMethodHS512, testSecret, validClaims("user-1"))
		}},
	}

	for _, tc := range rejected {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + tc.token(t)})
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if code := errorCode(t, rec); code != "INVALID_TOKEN" {
				t.Errorf("expected INVALID_TOKEN, got %q", code)
			}
		})
	}
}
