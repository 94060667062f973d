package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to API clients.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeOverpayment       = "OVERPAYMENT"
	CodeConflict          = "CONFLICT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInternal          = "INTERNAL"
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
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// WithDetails attaches client-facing details and returns the same error.
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}

// ErrorCode returns the AppError code carried by err, or an empty string.
func ErrorCode(err error) string {
	var target *AppError
	if errors.As(err, &target) {
		return target.Code
	}
	return ""
}

// ValidationError reports missing or malformed input.
func ValidationError(message string) *AppError {
	return NewAppError(CodeValidation, message, http.StatusBadRequest, nil)
}

// NotFound reports an absent referenced entity.
func NotFound(format string, args ...any) *AppError {
	return NewAppError(CodeNotFound, fmt.Sprintf(format, args...), http.StatusNotFound, nil)
}

// InsufficientStock reports a cart line that exceeds the product's stock.
func InsufficientStock(productName string) *AppError {
	return NewAppError(CodeInsufficientStock, "Insufficient stock for "+productName, http.StatusBadRequest, nil)
}

// Overpayment reports a payment larger than the invoice balance.
func Overpayment(remaining string) *AppError {
	return NewAppError(CodeOverpayment, "Payment exceeds remaining balance of "+remaining, http.StatusBadRequest, nil)
}

// Conflict reports a uniqueness violation or a state that blocks the request.
func Conflict(message string) *AppError {
	return NewAppError(CodeConflict, message, http.StatusConflict, nil)
}

// Internal wraps an unexpected failure. The wrapped error is never sent to clients.
func Internal(err error) *AppError {
	return NewAppError(CodeInternal, "internal error", http.StatusInternalServerError, err)
}
