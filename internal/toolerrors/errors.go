// Package toolerrors defines the error taxonomy shared by the tool adapters.
//
// Every tool call either returns a typed result or one of these errors:
//
//   - ValidationError: malformed caller input (bad date, bad query input)
//   - AuthenticationError: no usable delegated credential could be obtained
//   - ExternalServiceError: the Calendar or Drive API call failed
//   - StorageError: the local credential directory could not be used
//
// "Nothing to do" outcomes (attendee not present, no item with that name) are
// not errors; they are reported as successful results with a descriptive
// message.
package toolerrors

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// ValidationError reports caller input that cannot be used.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, value string, err error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Err: err}
}

// AuthenticationError reports that no credential could be obtained or refreshed.
// No tool operation proceeds while this is unresolved.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return "authentication failed: " + e.Reason
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// NewAuthenticationError creates an AuthenticationError.
func NewAuthenticationError(reason string, err error) *AuthenticationError {
	return &AuthenticationError{Reason: reason, Err: err}
}

// ExternalServiceError reports a failed call against the Calendar or Drive API.
// Operation is the adapter operation name and Target the id it acted on.
type ExternalServiceError struct {
	Operation string
	Target    string
	Err       error
}

func (e *ExternalServiceError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("%s failed for %s: %v", e.Operation, e.Target, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status reported by the remote API, or 0 when the
// failure happened before a response was received.
func (e *ExternalServiceError) StatusCode() int {
	var apiErr *googleapi.Error
	if errors.As(e.Err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// NewExternalServiceError wraps err with the failed operation and its target.
func NewExternalServiceError(operation, target string, err error) *ExternalServiceError {
	return &ExternalServiceError{Operation: operation, Target: target, Err: err}
}

// StorageError reports an unusable local path for persisted credentials.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("credential storage %s: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError creates a StorageError for path.
func NewStorageError(path string, err error) *StorageError {
	return &StorageError{Path: path, Err: err}
}

// IsNotFound reports whether err is an ExternalServiceError caused by a 404
// from the remote API.
func IsNotFound(err error) bool {
	var extErr *ExternalServiceError
	if !errors.As(err, &extErr) {
		return false
	}
	return extErr.StatusCode() == http.StatusNotFound
}

// IsAuthentication reports whether err is an AuthenticationError.
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
