package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/config"
)

func TestPayloadRoundTripKeepsCountHeader(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Set("totalAmountOfRecords", "137")
	body := []byte(`[{"id":1}]`)

	enc, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(enc)
	if !ok {
		t.Fatal("decodePayload failed")
	}
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if gotHdr.Get("totalAmountOfRecords") != "137" {
		t.Fatalf("count header lost: %v", gotHdr)
	}
	if !bytes.Equal(gotBody, body) {
		t.Fatalf("body = %q, want %q", gotBody, body)
	}
}

func TestDecodePayloadRejectsShortInput(t *testing.T) {
	if _, _, _, ok := decodePayload([]byte{1, 2, 3}); ok {
		t.Fatal("short payload accepted")
	}
	if _, _, _, ok := decodePayload([]byte{0, 0, 0, 200, 0, 0, 0, 99}); ok {
		t.Fatal("truncated header accepted")
	}
}

func TestCacheKeyVariesWithQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	e := echo.New()

	key := func(target string) string {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/api/movies/filter")
		return cacheKeyFrom(cfg, c)
	}

	a := key("/api/movies/filter?page=1")
	b := key("/api/movies/filter?page=2")
	if a == b {
		t.Fatal("different pages produced the same cache key")
	}
	if !strings.HasPrefix(a, "cache:") {
		t.Fatalf("key %q missing prefix", a)
	}
	if a != key("/api/movies/filter?page=1") {
		t.Fatal("cache key is not stable for identical requests")
	}
}

func TestOversizedResponseIsNotCached(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 10}

	body := `[{"id":1},{"id":2},{"id":3}]`
	for _, chunk := range []string{body[:15], body[15:]} {
		if _, err := cw.Write([]byte(chunk)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	// The client always receives the full body.
	if rec.Body.String() != body {
		t.Fatalf("client body = %q, want %q", rec.Body.String(), body)
	}
	// The capture buffer is cut off at the limit, so this response must
	// be treated as uncacheable rather than stored truncated.
	if cw.buf.Len() != 10 {
		t.Fatalf("capture buffer = %d bytes, want 10", cw.buf.Len())
	}
	if fitsBody(cw.size, cw.limit) {
		t.Fatalf("fitsBody(%d, %d) = true, want false", cw.size, cw.limit)
	}
}

func TestCaptureWriterCountsBeyondLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 10}

	// First write fills the buffer exactly; the second must still be
	// counted or the truncation would go unnoticed.
	_, _ = cw.Write([]byte("0123456789"))
	_, _ = cw.Write([]byte("overflow"))

	if cw.size != 18 {
		t.Fatalf("size = %d, want 18", cw.size)
	}
	if fitsBody(cw.size, cw.limit) {
		t.Fatal("truncated capture reported as complete")
	}
}

func TestFitsBody(t *testing.T) {
	if !fitsBody(10, 10) {
		t.Fatal("exactly at the limit must fit")
	}
	if fitsBody(11, 10) {
		t.Fatal("one over the limit must not fit")
	}
	if !fitsBody(1 << 30, 0) {
		t.Fatal("limit 0 means unlimited")
	}
}

func TestNewRedisCacheNilClientIsPassThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: true}, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/genres", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "live")
	})(c)
	if err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if rec.Code != http.StatusOK || rec.Body.String() != "live" {
		t.Fatalf("pass-through broken: %d %q", rec.Code, rec.Body.String())
	}
}
