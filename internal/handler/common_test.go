package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

func newContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBindPagination(t *testing.T) {
	cfg := config.Config{PageSizeDefault: 10, PageSizeMax: 50}
	cases := []struct {
		name   string
		target string
		want   repository.Pagination
	}{
		{"no params", "/api/genres", repository.Pagination{Page: 1, RecordsPerPage: 10}},
		{"explicit", "/api/genres?page=3&recordsPerPage=20", repository.Pagination{Page: 3, RecordsPerPage: 20}},
		{"oversized clamped", "/api/genres?page=1&recordsPerPage=999", repository.Pagination{Page: 1, RecordsPerPage: 50}},
		{"zero page clamped", "/api/genres?page=0", repository.Pagination{Page: 1, RecordsPerPage: 10}},
		{"garbage values", "/api/genres?page=abc&recordsPerPage=xyz", repository.Pagination{Page: 1, RecordsPerPage: 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := bindPagination(newContext(tc.target), cfg)
			if got != tc.want {
				t.Fatalf("bindPagination(%q) = %+v, want %+v", tc.target, got, tc.want)
			}
		})
	}
}

func TestSetTotalCount(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	setTotalCount(c, 1234)
	if got := rec.Header().Get("totalAmountOfRecords"); got != "1234" {
		t.Fatalf("header = %q, want 1234", got)
	}
}

func TestGetUserIDShapes(t *testing.T) {
	cases := []struct {
		name string
		val  interface{}
		want uint64
		ok   bool
	}{
		{"float64 from jwt claims", float64(42), 42, true},
		{"uint64", uint64(7), 7, true},
		{"int", 3, 3, true},
		{"numeric string", "19", 19, true},
		{"non-numeric string", "abc", 0, false},
		{"missing", nil, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newContext("/")
			if tc.val != nil {
				c.Set("user_id", tc.val)
			}
			got, err := getUserID(c)
			if tc.ok && (err != nil || got != tc.want) {
				t.Fatalf("getUserID = (%d, %v), want (%d, nil)", got, err, tc.want)
			}
			if !tc.ok && err == nil {
				t.Fatalf("getUserID = (%d, nil), want error", got)
			}
		})
	}
}

func TestOptionalUserIDAnonymous(t *testing.T) {
	if got := optionalUserID(newContext("/")); got != 0 {
		t.Fatalf("optionalUserID = %d, want 0 for anonymous", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2024-07-19")
	if err != nil {
		t.Fatalf("parseDate: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 7 || d.Day() != 19 {
		t.Fatalf("parseDate = %v", d)
	}
	if _, err := parseDate("2024-07-19T15:04:05Z"); err != nil {
		t.Fatalf("RFC3339 form rejected: %v", err)
	}
	if _, err := parseDate("19/07/2024"); err == nil {
		t.Fatal("unknown layout accepted")
	}
}
