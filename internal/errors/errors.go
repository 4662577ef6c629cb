// Package errors defines stable error codes for the map/lens pipeline.
package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// MapInvalid indicates a malformed CodeMap document
	MapInvalid ErrorCode = "MAP_INVALID"
	// LensInvalid indicates a malformed Lens document
	LensInvalid ErrorCode = "LENS_INVALID"
	// TraceInvalid indicates a malformed Trace document
	TraceInvalid ErrorCode = "TRACE_INVALID"
	// ConfigInvalid indicates a rejected configuration value
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// CacheUnavailable indicates the content cache store could not be used
	CacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// UfError represents a pipeline error with a stable code and message.
// Malformed interchange documents always indicate an upstream bug, so
// these errors name the offending field instead of suggesting retries.
type UfError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	cause   error
}

// New creates a new UfError
func New(code ErrorCode, message string) *UfError {
	return &UfError{Code: code, Message: message}
}

// Wrap creates a new UfError with an underlying cause
func Wrap(code ErrorCode, message string, cause error) *UfError {
	return &UfError{Code: code, Message: message, cause: cause}
}

// WithField records the document field that failed validation
func (e *UfError) WithField(field string) *UfError {
	e.Field = field
	return e
}

// Error implements the error interface
func (e *UfError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s (field %q)", msg, e.Field)
	}
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

// Unwrap returns the underlying error
func (e *UfError) Unwrap() error {
	return e.cause
}

// CodeOf returns the error code if err is a UfError, or InternalError otherwise.
func CodeOf(err error) ErrorCode {
	var ue *UfError
	if ok := asUfError(err, &ue); ok {
		return ue.Code
	}
	return InternalError
}

func asUfError(err error, target **UfError) bool {
	for err != nil {
		if ue, ok := err.(*UfError); ok {
			*target = ue
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
