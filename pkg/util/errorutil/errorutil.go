package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned by repositories when a lookup misses.
var ErrNotFound = errors.New("not found")

// Error codes carried in API responses.
const (
	CodeValidation   = "VALIDATION_FAILED"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeInvalidState = "INVALID_STATE"
	CodeNotDurable   = "NOT_DURABLE"
	CodeInternal     = "INTERNAL_ERROR"
)

// DomainError is an application error with its HTTP mapping.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError constructs a DomainError without a cause.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

// NewNotFound reports a missing resource, e.g. "ticket not found". It
// matches ErrNotFound under errors.Is.
func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	e := NewDomainError(CodeNotFound, resource+" not found", http.StatusNotFound, details)
	e.Err = ErrNotFound
	return e
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

// NewPreconditionFailed reports an operation attempted from the wrong state,
// e.g. assigning to a busy employee or cancelling a ticket in service.
func NewPreconditionFailed(message string, details map[string]any) error {
	return NewDomainError(CodeInvalidState, message, http.StatusConflict, details)
}

// NewPersistenceError reports that a mutation was applied in memory but could
// not be written to the document store.
func NewPersistenceError(err error) error {
	e := NewDomainError(CodeNotDurable, "change applied but not persisted", http.StatusServiceUnavailable, nil)
	e.Err = err
	return e
}

func NewInternalError(err error) error {
	e := NewDomainError(CodeInternal, "internal server error", http.StatusInternalServerError, nil)
	e.Err = err
	return e
}

// ToDomainError classifies err. Repository misses become NOT_FOUND and
// anything unrecognised INTERNAL_ERROR.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var de *DomainError
	switch {
	case errors.As(err, &de):
		return de
	case errors.Is(err, ErrNotFound):
		e := NewDomainError(CodeNotFound, "resource not found", http.StatusNotFound, map[string]any{})
		e.Err = err
		return e
	default:
		return NewInternalError(err).(*DomainError)
	}
}

// MapError is ToDomainError returning the error interface.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

// HasCode reports whether err maps to a DomainError with the given code.
func HasCode(err error, code string) bool {
	de := ToDomainError(err)
	return de != nil && de.Code == code
}
