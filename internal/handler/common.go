package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in getUserID
	"strconv" // strconv converts strings to numeric types
	"time"    // time parses date form fields

	"github.com/iliyamo/movie-catalog/internal/config"     // config supplies page size bounds
	"github.com/iliyamo/movie-catalog/internal/repository" // repository holds data access layer
	"github.com/labstack/echo/v4"                          // echo defines request context types
)

// totalCountHeader is the response header carrying the number of rows that
// match the active filters before pagination is applied. The name is part of
// the wire contract consumed by the frontend.
const totalCountHeader = "totalAmountOfRecords"

// bindPagination reads the page and recordsPerPage query parameters and
// normalizes them against the configured bounds. Absent or malformed values
// fall back to the configured defaults inside Normalize.
func bindPagination(c echo.Context, cfg config.Config) repository.Pagination {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("recordsPerPage"))
	return repository.Pagination{Page: page, RecordsPerPage: size}.
		Normalize(cfg.PageSizeDefault, cfg.PageSizeMax)
}

// setTotalCount attaches the pre-pagination row count to the response.
func setTotalCount(c echo.Context, total int64) {
	c.Response().Header().Set(totalCountHeader, strconv.FormatInt(total, 10))
}

// parseID parses the :id path parameter as an unsigned integer.
func parseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// getUserID extracts the user_id from echo.Context and converts it to
// uint64. The JWT middleware stores the raw claim value, which arrives as
// float64 after JSON decoding, so several shapes are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// optionalUserID is getUserID for endpoints where authentication is
// optional; it returns 0 for anonymous callers.
func optionalUserID(c echo.Context) uint64 {
	uid, err := getUserID(c)
	if err != nil {
		return 0
	}
	return uid
}

// parseDate parses a date form field. Plain dates are the common case; full
// RFC 3339 timestamps are accepted for clients that send them.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
