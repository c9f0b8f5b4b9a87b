// Package errors defines the coded errors the services return and the
// HTTP status each code is reported with.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode identifies a class of failure in API responses
type ErrorCode string

const (
	CodeBadRequest           ErrorCode = "BAD_REQUEST"
	CodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	CodeRecipeNotFound       ErrorCode = "RECIPE_NOT_FOUND"
	CodeUnsupportedMedia     ErrorCode = "UNSUPPORTED_MEDIA_TYPE"
	CodeTooManyRequests      ErrorCode = "TOO_MANY_REQUESTS"
	CodeInternal             ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

var statusByCode = map[ErrorCode]int{
	CodeBadRequest:           http.StatusBadRequest,
	CodeValidationFailed:     http.StatusBadRequest,
	CodeRecipeNotFound:       http.StatusNotFound,
	CodeUnsupportedMedia:     http.StatusUnsupportedMediaType,
	CodeTooManyRequests:      http.StatusTooManyRequests,
	CodeExternalServiceError: http.StatusBadGateway,
}

// AppError is an error with a code, a user-facing message and optional
// context for logs
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Details != "" {
		fmt.Fprintf(&b, " (%s)", e.Details)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *AppError) Unwrap() error { return e.Cause }

// StatusCode is the HTTP status for the error's code. Unknown codes are
// server errors.
func (e *AppError) StatusCode() int {
	if status, ok := statusByCode[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WithMetadata attaches a key/value pair and returns e
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{}, 1)
	}
	e.Metadata[key] = value
	return e
}

// WithCause sets the wrapped error and returns e
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(CodeBadRequest, message, "")
}

func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// NewDatabaseError reports a failed storage operation, e.g. "list recipes"
func NewDatabaseError(operation string, cause error) *AppError {
	return NewAppError(CodeDatabaseError, "Database operation failed", "could not "+operation).
		WithCause(cause)
}

// NewExternalServiceError reports a failed call to a dependency such as
// the video provider
func NewExternalServiceError(service string, cause error) *AppError {
	return NewAppError(CodeExternalServiceError, "External service error", service+" is unavailable").
		WithCause(cause)
}

func NewRecipeNotFoundError(recipeID string) *AppError {
	return NewAppError(CodeRecipeNotFound, "Recipe not found",
		fmt.Sprintf("no recipe with id %q", recipeID)).
		WithMetadata("recipe_id", recipeID)
}

// Wrap returns the AppError in err's chain, or an internal error with
// message wrapping err. A nil err stays nil.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	if appErr := as(err); appErr != nil {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// Is reports whether an AppError in err's chain has code
func Is(err error, code ErrorCode) bool {
	appErr := as(err)
	return appErr != nil && appErr.Code == code
}

// GetCode returns the code of the AppError in err's chain, or
// CodeInternal.
func GetCode(err error) ErrorCode {
	if appErr := as(err); appErr != nil {
		return appErr.Code
	}
	return CodeInternal
}

func as(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// ValidationError describes one rejected input field
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Tag     string      `json:"tag"`
	Message string      `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(v))
	for i, fe := range v {
		messages[i] = fe.Message
	}
	return strings.Join(messages, "; ")
}

// NewValidationErrors builds a VALIDATION_FAILED error whose details join
// the field messages
func NewValidationErrors(fields []ValidationError) *AppError {
	list := ValidationErrors(fields)
	return NewValidationError(list.Error()).WithMetadata("validation_errors", list)
}
