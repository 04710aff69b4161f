// Package validation wires go-playground/validator into Echo so handlers can
// call c.Validate on bound payloads and get a 400 with the first failing
// constraint.
package validation

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator adapts a validator.Validate instance to echo.Validator.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator using struct tag validation.
func New() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator. Constraint violations surface as
// HTTP 400 errors so handlers can simply return them.
func (cv *Validator) Validate(i interface{}) error {
	if err := cv.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
