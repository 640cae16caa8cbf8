package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// CustomError represents a custom application error
type CustomError struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e *CustomError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Error kinds used across the scrape/persist/proposal pipeline.
const (
	KindAuthFailure       = "auth_failure"
	KindTimeout           = "timeout"
	KindCaptchaUnresolved = "captcha_unresolved"
	KindNavigation        = "navigation_failure"
	KindPersistence       = "persistence_failure"
	KindGeneration        = "generation_failure"
	KindNotFound          = "not_found"
	KindValidation        = "validation_failed"
)

// NewAuthFailureError reports bad credentials or an unexpected login
// surface. Fatal to the run, no retry.
func NewAuthFailureError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusUnauthorized,
		Kind:    KindAuthFailure,
		Message: "Marketplace login failed",
		Detail:  detail,
	}
}

// NewTimeoutError reports a bounded wait that was exceeded.
func NewTimeoutError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusRequestTimeout,
		Kind:    KindTimeout,
		Message: "Operation timed out",
		Detail:  detail,
	}
}

// NewCaptchaUnresolvedError reports a CAPTCHA challenge that was not
// manually resolved within the wait window.
func NewCaptchaUnresolvedError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusRequestTimeout,
		Kind:    KindCaptchaUnresolved,
		Message: "CAPTCHA not resolved in time",
		Detail:  detail,
	}
}

// NewNavigationError reports a single page load failure. Recovered
// locally by the orchestrator: logged, the page is skipped.
func NewNavigationError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindNavigation,
		Message: "Page navigation failed",
		Detail:  detail,
	}
}

// NewPersistenceError reports a durable store operation failure.
func NewPersistenceError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Kind:    KindPersistence,
		Message: "Store operation failed",
		Detail:  detail,
	}
}

// NewGenerationError reports a failed external generation process
// (non-zero exit or error-stream output). The detail carries the
// captured error text.
func NewGenerationError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadGateway,
		Kind:    KindGeneration,
		Message: "Proposal generation failed",
		Detail:  detail,
	}
}

// NewNotFoundError reports a listing identity absent from the store.
func NewNotFoundError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: "Listing not found",
		Detail:  detail,
	}
}

func NewValidationError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: "Validation failed",
		Detail:  detail,
	}
}

// AsCustomError unwraps err into a *CustomError when possible.
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsKind reports whether err is a CustomError of the given kind.
func IsKind(err error, kind string) bool {
	if ce, ok := AsCustomError(err); ok {
		return ce.Kind == kind
	}
	return false
}
