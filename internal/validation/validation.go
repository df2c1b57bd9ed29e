// Package validation contains the logic for validating
// request data.
//
// It binds path parameters and JSON bodies with echo, enforces the rules
// declared in `validate` struct tags and converts failures into field level
// errors the client can understand.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/software-engineers/internal/errs"
)

// Validatable is implemented by request payload types that know how to validate themselves.
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific field.
// This is used for validation errors that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

var validate = validator.New()

// Struct runs the `validate` tags of v.
func Struct(v any) error {
	return validate.Struct(v)
}

// BindAndValidate binds request data into payload and validates it.
//
// payload must be a pointer. Bind failures (malformed JSON, a path
// parameter of the wrong type) and validation failures are both returned as
// a 400 *errs.HTTPError.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError(bindErrorMessage(err), false, nil, nil, nil)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

// bindErrorMessage extracts the client facing part of an echo bind error.
func bindErrorMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok && msg != "" {
			return msg
		}
		return fmt.Sprint(he.Message)
	}
	return "Invalid request"
}

func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var customErrors CustomValidationErrors
	if errors.As(err, &customErrors) {
		for _, ce := range customErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: ce.Field,
				Error: ce.Message,
			})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation failed", []errs.FieldError{{Field: "request", Error: err.Error()}}
	}

	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		var msg string

		switch fe.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if fe.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", fe.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", fe.Param())
			}

		case "max":
			if fe.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", fe.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", fe.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", fe.Param())

		default:
			if fe.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, fe.Tag(), fe.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, fe.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}
