package api

import (
	"github.com/go-playground/validator/v10"

	"agrotrust/internal/domain/lifecycle"
)

// CustomValidator plugs the shared validator into echo's c.Validate.
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: lifecycle.Validator()}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
