// Package errs defines the error shapes returned to API clients.
//
// Every failure leaving the HTTP layer is converted into an HTTPError so
// clients always receive the same JSON body:
//
//	{"code":"NOT_FOUND","message":"...","status":404,"override":false,"errors":null,"action":null}
package errs

import "strings"

// FieldError represents a field-level validation error.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType is a string-based enum describing what the client should do.
type ActionType string

// Action is an optional instruction for the client (e.g. redirect somewhere).
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the main custom error type for API responses.
//
// Code is machine friendly (e.g. "SOFTWARE_ENGINEER_NOT_FOUND"), Message is
// meant for humans. Override tells clients the message is safe to display
// verbatim.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	Errors []FieldError `json:"errors"`
	Action *Action      `json:"action"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is makes errors.Is match any *HTTPError regardless of its fields.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of e with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
	}
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
