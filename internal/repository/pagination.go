// Package repository contains data access logic separated from HTTP handlers.
// This file defines the page request shared by every list query.  The clamp
// rules live here so that repositories never see an unbounded or non-positive
// page size.
package repository

// Pagination describes the sub-range of an ordered result set requested by a
// client.  Page is 1-based.  RecordsPerPage is the requested page size before
// clamping.
type Pagination struct {
	Page           int // 1-based page number as sent by the client
	RecordsPerPage int // requested page size, clamped by Normalize
}

// Normalize returns a copy of p with all values forced into their valid
// ranges.  A page below 1 is clamped to 1 rather than rejected, so that a
// negative skip count can never reach the database.  A size below 1 falls
// back to defaultSize and a size above maxSize is capped at maxSize.  Both
// bounds are injected from configuration; there is no hidden static default.
func (p Pagination) Normalize(defaultSize, maxSize int) Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.RecordsPerPage < 1 {
		p.RecordsPerPage = defaultSize
	}
	if p.RecordsPerPage > maxSize {
		p.RecordsPerPage = maxSize
	}
	return p
}

// LimitOffset converts the normalized request into SQL LIMIT/OFFSET values:
// skip (page-1)*size rows, take size rows.
func (p Pagination) LimitOffset() (limit, offset int) {
	return p.RecordsPerPage, (p.Page - 1) * p.RecordsPerPage
}
