package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/discgolf/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims *models.JwtCustomClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validClaims(admin bool) *models.JwtCustomClaims {
	return &models.JwtCustomClaims{
		UserID:  7,
		Email:   "ace@example.com",
		IsAdmin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func run(t *testing.T, header string, mw ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, *models.JwtCustomClaims) {
	t.Helper()
	e := echo.New()
	var seen *models.JwtCustomClaims
	e.GET("/", func(c echo.Context) error {
		seen, _ = ClaimsFromContext(c)
		return c.NoContent(http.StatusOK)
	}, mw...)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, seen
}

func TestJWTAuthMiddleware(t *testing.T) {
	expired := validClaims(false)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", validClaims(false)), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, testSecret, expired), http.StatusUnauthorized},
		{"valid", "Bearer " + signToken(t, testSecret, validClaims(false)), http.StatusOK},
		{"lowercase scheme", "bearer " + signToken(t, testSecret, validClaims(false)), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, claims := run(t, tt.header, JWTAuthMiddleware(testSecret))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusOK && (claims == nil || claims.UserID != 7) {
				t.Errorf("claims not stored: %+v", claims)
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	user := "Bearer " + signToken(t, testSecret, validClaims(false))
	admin := "Bearer " + signToken(t, testSecret, validClaims(true))

	if rec, _ := run(t, user, JWTAuthMiddleware(testSecret), AdminOnly()); rec.Code != http.StatusForbidden {
		t.Errorf("non-admin status = %d, want 403", rec.Code)
	}
	if rec, _ := run(t, admin, JWTAuthMiddleware(testSecret), AdminOnly()); rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rec.Code)
	}
	if rec, _ := run(t, "", AdminOnly()); rec.Code != http.StatusUnauthorized {
		t.Errorf("no claims status = %d, want 401", rec.Code)
	}
}
