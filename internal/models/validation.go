package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldError describes a single invalid field
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// FormatValidationErrors turns validator errors into readable field errors
func FormatValidationErrors(err error) []FieldError {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	var errors []FieldError
	for _, fe := range validationErrors {
		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", fe.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		default:
			message = fmt.Sprintf("%s is invalid", fe.Field())
		}

		errors = append(errors, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Value:   fmt.Sprintf("%v", fe.Value()),
			Message: message,
		})
	}
	return errors
}
