package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runRole(t *testing.T, role interface{}, allowed ...string) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	handler := RequireRole(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)
	return rec.Code
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	if code := runRole(t, "ADMIN", "ADMIN"); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
}

func TestRequireRoleRejectsOtherRole(t *testing.T) {
	if code := runRole(t, "USER", "ADMIN"); code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", code)
	}
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	if code := runRole(t, nil, "ADMIN"); code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", code)
	}
}

func TestRequireRoleRejectsNonStringRole(t *testing.T) {
	if code := runRole(t, 42, "ADMIN"); code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", code)
	}
}

func TestRequireRoleMultipleAllowed(t *testing.T) {
	if code := runRole(t, "USER", "ADMIN", "USER"); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
}
