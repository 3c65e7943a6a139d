package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func signToken(t *testing.T, secret []byte, roles []string) string {
	t.Helper()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: roles,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func authServer() *echo.Echo {
	e := echo.New()
	e.Use(JWTMiddleware(testSecret))
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/whoami", func(c echo.Context) error {
		return c.String(http.StatusOK, UserIDFromContext(c.Request().Context()))
	})
	e.GET("/admin-only", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RequireRole("admin"))
	e.GET("/viewer", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RequireRole("viewer", "analyst"))
	return e
}

func request(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddleware(t *testing.T) {
	e := authServer()

	if rec := request(e, "/whoami", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}
	if rec := request(e, "/whoami", "garbage"); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", rec.Code)
	}

	wrongKey := signToken(t, []byte("ffffffffffffffffffffffffffffffff"), nil)
	if rec := request(e, "/whoami", wrongKey); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong key: status = %d, want 401", rec.Code)
	}

	rec := request(e, "/whoami", signToken(t, testSecret, []string{"viewer"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d", rec.Code)
	}
	if rec.Body.String() != "user-1" {
		t.Errorf("subject = %q, want user-1", rec.Body.String())
	}
}

func TestHealthSkipsAuth(t *testing.T) {
	e := authServer()
	if rec := request(e, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("health without token: status = %d, want 200", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	e := authServer()

	viewer := signToken(t, testSecret, []string{"viewer"})
	admin := signToken(t, testSecret, []string{"admin"})
	nobody := signToken(t, testSecret, nil)

	if rec := request(e, "/viewer", viewer); rec.Code != http.StatusOK {
		t.Errorf("viewer on /viewer: status = %d", rec.Code)
	}
	if rec := request(e, "/viewer", nobody); rec.Code != http.StatusForbidden {
		t.Errorf("no roles on /viewer: status = %d, want 403", rec.Code)
	}
	if rec := request(e, "/admin-only", viewer); rec.Code != http.StatusForbidden {
		t.Errorf("viewer on /admin-only: status = %d, want 403", rec.Code)
	}
	// Admin passes any role requirement.
	if rec := request(e, "/viewer", admin); rec.Code != http.StatusOK {
		t.Errorf("admin on /viewer: status = %d", rec.Code)
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(DevAuthMiddleware())
	e.GET("/admin-only", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RequireRole("admin"))

	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 in dev mode", rec.Code)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatal(err)
	}
	e := authServer()
	if rec := request(e, "/whoami", token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expired token: status = %d, want 401", rec.Code)
	}
}
