package validation

import (
	"github.com/go-playground/validator/v10"

	"github.com/contacthub/contacthub/internal/apperr"
)

// Validator adapts go-playground/validator to echo's Validator interface.
// Failed struct validation surfaces as a VALIDATION_ERROR domain error.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return apperr.ErrValidation.WithMessage(err.Error())
	}
	return nil
}
