// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the client-facing error type of the credential service.

It bridges internal failures (directory, store, authority outcomes) and the
HTTP responses produced by [respond.Error].

Architecture:

  - AppError: machine-readable Code plus a client-safe Message.
  - Mapping: every AppError carries the HTTP status it renders as.
  - FromAuth: collapses the authority's sentinel errors into the few
    responses a client is allowed to see.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/taibuivan/credauth/internal/platform/sec"
)

// AppError is the canonical error type returned to API clients.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "CONFLICT").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause returns a copy of e that remembers cause for logging.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Request") // Returns "Request not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// ServiceUnavailable creates a 503 [AppError] for transient dependency failures.
func ServiceUnavailable(msg string) *AppError {
	return &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    msg,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// # Authority Outcomes

// Client-visible messages for authority failures. Every rejection shares one
// message so a response never tells a revoked credential from a forged one.
const (
	MessageUnauthorized   = "Authentication required"
	MessageBadCredentials = "Invalid email or password"
	MessageUnavailable    = "Authentication is temporarily unavailable"
	MessageDuplicate      = "Email is already registered"
)

/*
FromAuth maps an error returned by the credential authority to a client error.

Description: ErrDuplicateIdentity becomes 409, ErrAuthorityUnavailable becomes
503, and every other authority sentinel becomes the same generic 401. The
precise sentinel is kept as Cause so it can still be logged.

Parameters:
  - err: error returned by Register, Login or Validate

Returns:
  - *AppError: never nil for a non-nil err
*/
func FromAuth(err error) *AppError {
	switch {
	case errors.Is(err, sec.ErrAuthorityUnavailable):
		return ServiceUnavailable(MessageUnavailable).WithCause(err)
	case errors.Is(err, sec.ErrDuplicateIdentity):
		return Conflict(MessageDuplicate).WithCause(err)
	case errors.Is(err, sec.ErrInvalidCredentials):
		return Unauthorized(MessageBadCredentials).WithCause(err)
	case errors.Is(err, sec.ErrRevoked),
		errors.Is(err, sec.ErrInvalidToken),
		errors.Is(err, sec.ErrInvalidOrExpiredSession),
		errors.Is(err, sec.ErrUserNotFound),
		errors.Is(err, sec.ErrUnauthenticated):
		return Unauthorized(MessageUnauthorized).WithCause(err)
	default:
		if appError := As(err); appError != nil {
			return appError
		}
		return Internal(err)
	}
}

// # Helpers

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
