package utils

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// isodate: calendar date as YYYY-MM-DD
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.DateOnly, fl.Field().String())
		return err == nil
	})

	// clock: HH:MM or HH:MM:SS
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if _, err := time.Parse("15:04", s); err == nil {
			return true
		}
		_, err := time.Parse("15:04:05", s)
		return err == nil
	})

	return v
}

func ValidateStruct(data any) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, err := range validationErrors {
			errors[err.Field()] = getErrorMessage(err)
		}
	}

	return errors
}

// converts validator errors to human-readable messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "gt":
		return fmt.Sprintf("Must be greater than %s", err.Param())
	case "min":
		return fmt.Sprintf("Minimum is %s", err.Param())
	case "max":
		return fmt.Sprintf("Maximum is %s", err.Param())
	case "isodate":
		return "Must be a date in YYYY-MM-DD format"
	case "clock":
		return "Must be a time in HH:MM format"
	case "oneof":
		options := strings.ReplaceAll(err.Param(), " ", ", ")
		return fmt.Sprintf("Must be one of: %s", options)
	default:
		return fmt.Sprintf("Invalid %s field", err.Field())
	}
}

// formats validation errors map into single string
func FormatValidationErrors(errors map[string]string) string {
	fields := make([]string, 0, len(errors))
	for field := range errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, errors[field]))
	}
	return strings.Join(msgs, "; ")
}
