package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrInvalidCredentials is returned when the server rejects the
	// identity (HTTP 401). The message is deliberately generic: it must not
	// reveal which field was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrValidation is returned when the server rejects the login payload
	// with field-level messages (HTTP 422).
	ErrValidation = errors.New("validation failed")

	// ErrConnectivity is returned when no response reached the server.
	// Distinct from ErrInvalidCredentials so users do not retry with
	// different passwords when the real problem is network access.
	ErrConnectivity = errors.New("no response from server")

	// ErrLoginInProgress is returned when a login is attempted while
	// another one is still outstanding.
	ErrLoginInProgress = errors.New("login already in progress")
)

// ValidationError carries the field-level error map from an HTTP 422 response,
// e.g. {"email": ["The email field is required."]}.
type ValidationError struct {
	Fields map[string][]string
}

// Error returns the field errors joined into one message, fields sorted for
// stable output.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	var parts []string
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.Fields[f], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConnectivityError is returned when the request never produced an HTTP
// response (DNS failure, connection refused, timeout).
type ConnectivityError struct {
	Cause error
}

// Error returns a human-readable description of the connectivity failure.
func (e *ConnectivityError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("no response from server: %v", e.Cause)
	}
	return "no response from server"
}

// Unwrap returns the underlying transport error.
func (e *ConnectivityError) Unwrap() error {
	return e.Cause
}

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrConnectivity).
func (e *ConnectivityError) Is(target error) bool {
	return target == ErrConnectivity
}

// UnexpectedError is returned for any other server or client failure: an
// unanticipated status code or an unreadable response.
type UnexpectedError struct {
	// Status is the HTTP status code, or 0 when no status applies.
	Status int
	// Message is the server-provided message, if any.
	Message string
}

// Error returns a human-readable description of the failure.
func (e *UnexpectedError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("unexpected server error (%d): %s", e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("unexpected server error (%d)", e.Status)
	case e.Message != "":
		return "unexpected error: " + e.Message
	default:
		return "unexpected error"
	}
}

// StorageError is returned when the credential store cannot persist a new
// session. The login is refused rather than completed in memory only, so the
// durable copy never lags behind what the user was shown.
type StorageError struct {
	Op  string
	Err error
}

// Error returns a human-readable description of the storage failure.
func (e *StorageError) Error() string {
	return fmt.Sprintf("credential storage %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying storage error.
func (e *StorageError) Unwrap() error {
	return e.Err
}
