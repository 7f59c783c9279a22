// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	domainerrors "ratehub/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// requestValidator validates bound request structs against their validate tags.
type requestValidator struct {
	validate *validator.Validate
}

// New creates the validator used by the Echo server.
func New() echo.Validator {
	return &requestValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate implements echo.Validator. Violations surface as a domain
// validation error so the central error handler maps them to a 400 response.
func (v *requestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
