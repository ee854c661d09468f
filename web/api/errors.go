package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/screwyprof/vesting/vesting"
)

// Sentinel errors for error classification
var (
	ErrBadRequest          = errors.New(http.StatusText(http.StatusBadRequest))
	ErrInternalServerError = errors.New(http.StatusText(http.StatusInternalServerError))
)

// Reasons tell clients which kind of failure occurred.
const (
	ReasonBadRequest     = "bad_request"
	ReasonValidation     = "validation"
	ReasonUnauthorized   = "unauthorized"
	ReasonNotFound       = "not_found"
	ReasonConflict       = "conflict"
	ReasonNotLaunched    = "not_launched"
	ReasonNothingToClaim = "nothing_to_claim"
	ReasonInternal       = "internal"
)

// domainErrors maps the vesting error taxonomy to responses.
var domainErrors = []struct {
	target   error
	httpCode int
	reason   string
}{
	{vesting.ErrValidation, http.StatusBadRequest, ReasonValidation},
	{vesting.ErrUnauthorized, http.StatusForbidden, ReasonUnauthorized},
	{vesting.ErrNotFound, http.StatusNotFound, ReasonNotFound},
	{vesting.ErrConflict, http.StatusConflict, ReasonConflict},
	{vesting.ErrNotLaunched, http.StatusConflict, ReasonNotLaunched},
	{vesting.ErrNothingToClaim, http.StatusUnprocessableEntity, ReasonNothingToClaim},
}

// Error represents a structured API error response
type Error struct {
	cause    error  // The original error (for logging/debugging)
	message  string // Safe user-facing message
	reason   string // Machine-readable failure kind
	httpCode int    // HTTP status code (also used as API error code)
}

// HTTPCode returns the HTTP status code for this error
func (e *Error) HTTPCode() int {
	return e.httpCode
}

// Reason returns the machine-readable failure kind
func (e *Error) Reason() string {
	return e.reason
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.message
}

// Unwrap returns the underlying cause for error unwrapping
func (e *Error) Unwrap() error {
	return e.cause
}

// Is implements error checking for sentinel errors
func (e *Error) Is(target error) bool {
	return errors.Is(e.cause, target)
}

// Cause returns the original error for logging purposes
func (e *Error) Cause() error {
	return e.cause
}

// MarshalJSON implements json.Marshaler interface
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(ErrorResponse{
		Code:    e.httpCode,
		Message: e.message,
		Reason:  e.reason,
	})
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

// Constructor functions for different error types

func BadRequest(cause error) *Error {
	return clientError(cause, http.StatusBadRequest, ReasonBadRequest)
}

func InternalServerError(cause error) *Error {
	return &Error{
		cause:    cause,
		message:  http.StatusText(http.StatusInternalServerError), // Never expose internal error details
		reason:   ReasonInternal,
		httpCode: http.StatusInternalServerError,
	}
}

// 4xx errors are safe to expose
func clientError(cause error, httpCode int, reason string) *Error {
	return &Error{
		cause:    cause,
		message:  cause.Error(),
		reason:   reason,
		httpCode: httpCode,
	}
}

// Wrap transforms any error into a safe API error. Vesting domain errors
// become client errors; everything else is an internal error.
// If the error is already an API error, it returns it unchanged
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	for _, d := range domainErrors {
		if errors.Is(err, d.target) {
			return clientError(err, d.httpCode, d.reason)
		}
	}
	return InternalServerError(err)
}
