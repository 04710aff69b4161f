package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/utils"
)

const testSecret = "unit-test-secret"

func issueToken(t *testing.T, userID uint64, role string) string {
	t.Helper()
	at, err := utils.NewAccessToken(testSecret, userID, role, 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	return at.Token
}

func runMiddleware(mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)
	return rec, c
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, _ := runMiddleware(JWTAuth(testSecret), req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthRejectsGarbageToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec, _ := runMiddleware(JWTAuth(testSecret), req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("another-secret", 1, "USER", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec, _ := runMiddleware(JWTAuth(testSecret), req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthSetsIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, 42, "ADMIN"))
	rec, c := runMiddleware(JWTAuth(testSecret), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	// JSON numeric claims come back as float64
	if sub, _ := c.Get("user_id").(float64); uint64(sub) != 42 {
		t.Fatalf("user_id = %v, want 42", c.Get("user_id"))
	}
	if role, _ := c.Get("role").(string); role != "ADMIN" {
		t.Fatalf("role = %v, want ADMIN", c.Get("role"))
	}
}

func TestOptionalJWTAuthAllowsAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, c := runMiddleware(OptionalJWTAuth(testSecret), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if c.Get("user_id") != nil {
		t.Fatalf("anonymous request should carry no identity, got %v", c.Get("user_id"))
	}
}

func TestOptionalJWTAuthIgnoresInvalidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer broken")
	rec, c := runMiddleware(OptionalJWTAuth(testSecret), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if c.Get("user_id") != nil {
		t.Fatal("invalid token must not set an identity")
	}
}

func TestOptionalJWTAuthSetsIdentityWhenPresent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, 7, "USER"))
	rec, c := runMiddleware(OptionalJWTAuth(testSecret), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if sub, _ := c.Get("user_id").(float64); uint64(sub) != 7 {
		t.Fatalf("user_id = %v, want 7", c.Get("user_id"))
	}
}
