// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios without inspecting
// driver-specific error strings at every call site.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when an insert or update violates a uniqueness
// rule, such as registering an email twice. Handlers should translate this
// into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error (1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
