package utils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs validator tags over a request DTO and converts
// failures into a ValidationError with a field-level list.
func ValidateStruct(s interface{}) *AppError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		return NewValidationError("Validation failed")
	}

	fieldErrors := make([]string, 0, len(invalid))
	for _, fe := range invalid {
		fieldErrors = append(fieldErrors, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return NewValidationError("Validation failed", fieldErrors...)
}
