package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds raised by the domain packages. Match them with errors.Is.
var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrConflict                = errors.New("conflict")
	ErrNotFound                = errors.New("not found")
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// WithDetails attaches salient values to the error and returns it.
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}

// InvalidInput reports malformed or out-of-range input.
func InvalidInput(format string, args ...any) *AppError {
	return NewAppError("INVALID_INPUT", fmt.Sprintf(format, args...), http.StatusUnprocessableEntity, ErrInvalidInput)
}

// InsufficientStock reports every shortfall found while checking stock.
func InsufficientStock(messages []string, details any) *AppError {
	msg := "insufficient stock"
	if len(messages) == 1 {
		msg = messages[0]
	}
	return NewAppError("INSUFFICIENT_STOCK", msg, http.StatusConflict, ErrInsufficientStock).
		WithDetails(map[string]any{"errors": messages, "productDetails": details})
}

// InvalidStatusTransition reports a status change outside the transition table.
func InvalidStatusTransition(from, to string) *AppError {
	return NewAppError("INVALID_STATUS_TRANSITION",
		fmt.Sprintf("cannot change status from %s to %s", from, to),
		http.StatusBadRequest, ErrInvalidStatusTransition).
		WithDetails(map[string]string{"from": from, "to": to})
}

// Conflict reports a business rule violation on an existing resource.
func Conflict(format string, args ...any) *AppError {
	return NewAppError("CONFLICT", fmt.Sprintf(format, args...), http.StatusConflict, ErrConflict)
}

// NotFound reports a missing resource by kind and id.
func NotFound(resource, id string) *AppError {
	return NewAppError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound, ErrNotFound).
		WithDetails(map[string]string{"resource": resource, "id": id})
}
