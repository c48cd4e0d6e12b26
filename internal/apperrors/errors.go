// Package apperrors defines the stable error kinds raised by the account and
// analysis services. Every failure a handler can see carries one of these codes.
package apperrors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Code classifies an error for callers and for the HTTP layer.
type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeConflict   Code = "CONFLICT"
	CodeAuth       Code = "AUTH_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
	CodeStorage    Code = "STORAGE_ERROR"
	CodeInternal   Code = "INTERNAL_ERROR"
)

var statusByCode = map[Code]int{
	CodeValidation: http.StatusBadRequest,
	CodeConflict:   http.StatusConflict,
	CodeAuth:       http.StatusUnauthorized,
	CodeNotFound:   http.StatusNotFound,
	CodeStorage:    http.StatusInternalServerError,
	CodeInternal:   http.StatusInternalServerError,
}

// Error is a classified error with an optional wrapped cause.
type Error struct {
	code    Code
	message string
	cause   error
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// Code returns the classification of the error.
func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

// Message returns the human-readable message without the cause chain.
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// CodeOf extracts the code from any error, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var appErr *Error
	if stdErrors.As(err, &appErr) {
		return appErr.Code()
	}
	return CodeInternal
}

// HTTPStatus maps an error to the status the API should respond with.
func HTTPStatus(err error) int {
	if status, ok := statusByCode[CodeOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the message safe to show a client. Unclassified
// errors collapse to a generic message so internals do not leak.
func PublicMessage(err error) string {
	var appErr *Error
	if stdErrors.As(err, &appErr) {
		return appErr.Message()
	}
	return "internal server error"
}
