package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/config"
)

// The limiter keys on the identity OptionalJWTAuth resolved into the
// context, so a valid bearer token must yield a per-user bucket rather
// than the shared anonymous one.
func TestRateKeyUsesResolvedIdentity(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	e := echo.New()

	keyFor := func(authorize bool) string {
		req := httptest.NewRequest(http.MethodGet, "/api/movies", nil)
		if authorize {
			req.Header.Set("Authorization", "Bearer "+issueToken(t, 42, "USER"))
		}
		c := e.NewContext(req, httptest.NewRecorder())
		var key string
		handler := OptionalJWTAuth(testSecret)(func(c echo.Context) error {
			key = buildRateKey(cfg, c)
			return nil
		})
		if err := handler(c); err != nil {
			t.Fatalf("chain: %v", err)
		}
		return key
	}

	authed := keyFor(true)
	anon := keyFor(false)
	if !strings.HasSuffix(authed, ":user:42") {
		t.Fatalf("authenticated key = %q, want ...:user:42", authed)
	}
	if !strings.HasSuffix(anon, ":user:anon") {
		t.Fatalf("anonymous key = %q, want ...:user:anon", anon)
	}
	if authed == anon {
		t.Fatal("authenticated caller bucketed with anonymous traffic")
	}
}

func TestCurrentUserIDShapes(t *testing.T) {
	e := echo.New()
	ctxWith := func(v interface{}) echo.Context {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		if v != nil {
			c.Set("user_id", v)
		}
		return c
	}
	if got := currentUserID(ctxWith(float64(7))); got != "7" {
		t.Fatalf("float64 claim -> %q, want 7", got)
	}
	if got := currentUserID(ctxWith(uint64(9))); got != "9" {
		t.Fatalf("uint64 -> %q, want 9", got)
	}
	if got := currentUserID(ctxWith(nil)); got != "anon" {
		t.Fatalf("missing identity -> %q, want anon", got)
	}
}
