// Package apperr defines the error codes returned to API clients and their
// HTTP status mapping.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure.
type Code string

const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeMissingToken       Code = "MISSING_TOKEN"
	CodeInvalidToken       Code = "INVALID_TOKEN"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeDuplicateUser      Code = "DUPLICATE_USER"
	CodeNotFound           Code = "NOT_FOUND"
	CodeUpstream           Code = "UPSTREAM_ERROR"
	CodeStorage            Code = "STORAGE_ERROR"
	CodeInternal           Code = "INTERNAL_ERROR"
)

var statusByCode = map[Code]int{
	CodeValidation:         http.StatusBadRequest,
	CodeMissingToken:       http.StatusUnauthorized,
	CodeInvalidToken:       http.StatusForbidden,
	CodeInvalidCredentials: http.StatusBadRequest,
	CodeDuplicateUser:      http.StatusBadRequest,
	CodeNotFound:           http.StatusNotFound,
	CodeUpstream:           http.StatusInternalServerError,
	CodeStorage:            http.StatusInternalServerError,
	CodeInternal:           http.StatusInternalServerError,
}

// Error is an application error. Message is safe to show to clients;
// Cause is for logs only.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the status code for the error's code.
func (e *Error) HTTPStatus() int {
	if status, ok := statusByCode[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func Validation(message string) *Error {
	return New(CodeValidation, message)
}

func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

func Storage(message string, cause error) *Error {
	return Wrap(CodeStorage, message, cause)
}

func Upstream(message string, cause error) *Error {
	return Wrap(CodeUpstream, message, cause)
}

// As extracts an *Error from err. Anything else becomes CodeInternal.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(CodeInternal, "internal error", err)
}

// CodeOf returns the code of err, or "" for nil.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	return As(err).Code
}
