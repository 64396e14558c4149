package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// Common application errors
var (
	ErrNotFound     = NewNotFoundError("resource", "resource not found")
	ErrEmailExists  = NewAlreadyExistsError("user", "user already exists")
	ErrUnauthorized = NewUnauthorizedError("invalid credentials")
	ErrInternal     = NewInternalError("internal server error", nil)
)

// HTTPStatuser is implemented by errors that map to a specific HTTP status.
type HTTPStatuser interface {
	HTTPStatus() int
}

// FieldError describes a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError represents a validation failure with field-level details.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// NewValidationErrors creates a validation error from a list of field errors.
func NewValidationErrors(fields []FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		if f.Field != "" {
			msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
		} else {
			msgs[i] = f.Message
		}
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, ", "))
}

// HTTPStatus returns the HTTP status code for this error.
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// NotFoundError represents a resource not found error.
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{Resource: resource, Message: message}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// HTTPStatus returns the HTTP status code for this error.
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// AlreadyExistsError represents a resource already exists error.
// Duplicate registrations report 400 to match the public API contract.
type AlreadyExistsError struct {
	Resource string
	Message  string
}

// NewAlreadyExistsError creates a new already exists error.
func NewAlreadyExistsError(resource, message string) *AlreadyExistsError {
	return &AlreadyExistsError{Resource: resource, Message: message}
}

// Error implements the error interface.
func (e *AlreadyExistsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// HTTPStatus returns the HTTP status code for this error.
func (e *AlreadyExistsError) HTTPStatus() int {
	return http.StatusBadRequest
}

// UnauthorizedError represents an authentication failure. The message is
// deliberately generic so callers cannot probe which credential was wrong.
type UnauthorizedError struct {
	Message string
}

// NewUnauthorizedError creates a new unauthorized error.
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

// Error implements the error interface.
func (e *UnauthorizedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// HTTPStatus returns the HTTP status code for this error.
func (e *UnauthorizedError) HTTPStatus() int {
	return http.StatusUnauthorized
}

// UploadError represents a failure to store an object in blob storage.
type UploadError struct {
	Message string
	Err     error
}

// NewUploadError creates a new upload error.
func NewUploadError(message string, err error) *UploadError {
	return &UploadError{Message: message, Err: err}
}

// Error implements the error interface.
func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *UploadError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for this error.
func (e *UploadError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// DeliveryError represents a failure to hand a message to the mail transport.
type DeliveryError struct {
	Message string
	Err     error
}

// NewDeliveryError creates a new delivery error.
func NewDeliveryError(message string, err error) *DeliveryError {
	return &DeliveryError{Message: message, Err: err}
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for this error.
func (e *DeliveryError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// InternalError represents an internal server error with context.
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{Message: message, Err: err}
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for this error.
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}
