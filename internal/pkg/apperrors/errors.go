package apperrors

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. Every failure of the write path maps onto exactly one.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrResourceNotFound = errors.New("resource not found")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrStorageFailure   = errors.New("storage failure")
	ErrConflict         = errors.New("conflict")
)

// Authentication errors
var (
	ErrUnauthorized       = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
)

// Kind names the error category of an error.
type Kind string

const (
	KindValidation Kind = "ValidationError"
	KindNotFound   Kind = "NotFound"
	KindDuplicate  Kind = "DuplicateKey"
	KindStorage    Kind = "StorageFailure"
	KindConflict   Kind = "Conflict"
	KindUnknown    Kind = "Unknown"
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Entity  string
	Fields  []string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Field returns the first offending field, if any.
func (e *CustomError) Field() string {
	if len(e.Fields) == 0 {
		return ""
	}
	return e.Fields[0]
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewValidationError reports one or more invalid fields.
func NewValidationError(message string, fields ...string) *CustomError {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Fields:  fields,
	}
}

// NewNotFoundError reports a missing entity. field names the reference that failed to
// resolve, or is empty for a plain lookup by id.
func NewNotFoundError(entity, field string) *CustomError {
	e := &CustomError{
		Err:     ErrResourceNotFound,
		Entity:  entity,
		Message: entity + " not found",
	}
	if field != "" {
		e.Fields = []string{field}
	}
	return e
}

// NewDuplicateKeyError reports a uniqueness violation on field.
func NewDuplicateKeyError(entity, field string) *CustomError {
	return &CustomError{
		Err:     ErrDuplicateKey,
		Entity:  entity,
		Fields:  []string{field},
		Message: fmt.Sprintf("%s with this %s already exists", entity, field),
	}
}

// NewStorageError wraps a persistence failure unrelated to validation or uniqueness.
func NewStorageError(op string, err error) *CustomError {
	return &CustomError{
		Err:     fmt.Errorf("%w: %v", ErrStorageFailure, err),
		Message: op + " failed",
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) *CustomError {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// KindOf classifies err.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidationFailed):
		return KindValidation
	case errors.Is(err, ErrResourceNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicateKey):
		return KindDuplicate
	case errors.Is(err, ErrStorageFailure):
		return KindStorage
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindUnknown
	}
}

// FieldOf returns the offending field carried by err, if any.
func FieldOf(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Field()
	}
	return ""
}
