package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorType represents the category of an API error.
type ErrorType string

const (
	ErrorTypeMalformedInput       ErrorType = "malformed_input"
	ErrorTypeSchemaViolation      ErrorType = "schema_violation"
	ErrorTypeProviderAuth         ErrorType = "provider_auth_error"
	ErrorTypeProviderRateLimited  ErrorType = "provider_rate_limited"
	ErrorTypeProviderUnavailable  ErrorType = "provider_unavailable"
	ErrorTypeUnknownProviderError ErrorType = "unknown_provider_error"
	ErrorTypeMidStreamTruncation  ErrorType = "mid_stream_truncation"
	ErrorTypeInternal             ErrorType = "internal_error"
	ErrorTypeNotFound             ErrorType = "not_found"
)

// APIError is a classified failure. Provider and StatusCode are set for
// errors that originate from an upstream provider; StatusCode is the
// upstream HTTP status when the provider's error shape exposes one.
type APIError struct {
	Type       ErrorType `json:"type"`
	Param      string    `json:"param,omitempty"`
	Provider   string    `json:"provider,omitempty"`
	StatusCode int       `json:"status,omitempty"`
	Message    string    `json:"error"`

	// Cause is the underlying error, if any. It is never serialized.
	Cause error `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param: %s)", e.Type, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error { return e.Cause }

// IsProviderError reports whether the error belongs to the dispatch phase.
func (e *APIError) IsProviderError() bool {
	switch e.Type {
	case ErrorTypeProviderAuth, ErrorTypeProviderRateLimited,
		ErrorTypeProviderUnavailable, ErrorTypeUnknownProviderError:
		return true
	}
	return false
}

// NewMalformedInputError creates an APIError for bodies that are not parseable JSON.
func NewMalformedInputError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeMalformedInput,
		Message: message,
	}
}

// NewSchemaViolationError creates an APIError for a parseable body that does
// not have the shape of a GenerationRequest.
func NewSchemaViolationError(param, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeSchemaViolation,
		Param:   param,
		Message: message,
	}
}

// NewProviderError creates a dispatch-phase APIError. The message is
// prefixed with the provider's display name and, when known, the upstream
// status code: "OpenAI Error (401): invalid api key".
func NewProviderError(typ ErrorType, providerName, displayName string, status int, message string) *APIError {
	prefix := displayName + " Error"
	if status > 0 {
		prefix = fmt.Sprintf("%s (%d)", prefix, status)
	}
	return &APIError{
		Type:       typ,
		Provider:   providerName,
		StatusCode: status,
		Message:    prefix + ": " + message,
	}
}

// NewInternalError creates an APIError for failures inside the gateway itself.
func NewInternalError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInternal,
		Message: message,
	}
}

// NewNotFoundError creates an APIError for a lookup of an unknown resource.
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// ErrorTypeForStatus maps an upstream HTTP status code to a dispatch error type.
func ErrorTypeForStatus(status int) ErrorType {
	switch {
	case status == 401 || status == 403:
		return ErrorTypeProviderAuth
	case status == 429:
		return ErrorTypeProviderRateLimited
	case status >= 500:
		return ErrorTypeProviderUnavailable
	default:
		return ErrorTypeUnknownProviderError
	}
}

// ClassifyTransportError classifies an error raised while talking to a
// provider that carries no provider-specific shape: network failures,
// timeouts and cancellations. An error that is already an *APIError is
// returned unchanged.
func ClassifyTransportError(providerName, displayName string, err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	typ := ErrorTypeUnknownProviderError
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		typ = ErrorTypeProviderUnavailable
	case errors.As(err, &netErr):
		typ = ErrorTypeProviderUnavailable
	}

	e := NewProviderError(typ, providerName, displayName, 0, err.Error())
	e.Cause = err
	return e
}
