package common

import (
	"errors"
	"net/http"
)

// Stable error codes surfaced to API clients. Provider detail never leaves the
// logs; the message attached to these codes is deliberately non-technical.
const (
	CodeConfigurationError  = "CONFIGURATION_ERROR"
	CodeIntentUnavailable   = "INTENT_UNAVAILABLE"
	CodeCaptureFailed       = "CAPTURE_FAILED"
	CodeSessionCreateFailed = "SESSION_CREATE_FAILED"
	CodeMissingContent      = "MISSING_CONTENT"
	CodeMissingSession      = "MISSING_SESSION"
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidPayload      = "INVALID_PAYLOAD"
	CodeConflict            = "CONFLICT"
	CodeInternal            = "INTERNAL_ERROR"
)

// AppError is the canonical application error carrying a stable code, an HTTP
// status, and a client-safe message.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    map[string]any
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError builds an AppError with the given code, message, and status.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// WithDetails attaches structured detail fields and returns the error.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// IsAppError unwraps err into an *AppError when possible.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Helpers for the checkout error taxonomy. Each carries the generic
// user-facing message; the wrapped error keeps the real cause for logging.

func ErrConfiguration(err error) *AppError {
	return NewAppError(CodeConfigurationError, "this payment method is not available right now", http.StatusServiceUnavailable, err)
}

func ErrIntentUnavailable(err error) *AppError {
	return NewAppError(CodeIntentUnavailable, "payment processing failed, please try again", http.StatusConflict, err)
}

func ErrCaptureFailed(err error) *AppError {
	return NewAppError(CodeCaptureFailed, "payment processing failed, please try again", http.StatusBadGateway, err)
}

func ErrSessionCreateFailed(err error) *AppError {
	return NewAppError(CodeSessionCreateFailed, "payment processing failed, please try again", http.StatusBadGateway, err)
}

func ErrMissingContent() *AppError {
	return NewAppError(CodeMissingContent, "payment processing failed", http.StatusBadRequest, nil)
}

func ErrMissingSession() *AppError {
	return NewAppError(CodeMissingSession, "payment processing failed", http.StatusBadRequest, nil)
}

func ErrNotFound(message string) *AppError {
	return NewAppError(CodeNotFound, message, http.StatusNotFound, nil)
}

func ErrInvalidPayload(message string) *AppError {
	return NewAppError(CodeInvalidPayload, message, http.StatusBadRequest, nil)
}

func ErrInternal(err error) *AppError {
	return NewAppError(CodeInternal, "internal server error", http.StatusInternalServerError, err)
}
