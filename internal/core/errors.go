package core

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrBadRequest       ErrorCode = "SVC_BAD_REQUEST"
	ErrUnauthorized     ErrorCode = "SVC_UNAUTHORIZED"
	ErrNotFound         ErrorCode = "SVC_NOT_FOUND"
	ErrMethodNotAllowed ErrorCode = "SVC_METHOD_NOT_ALLOWED"
	ErrUnavailable      ErrorCode = "SVC_UNAVAILABLE"
	ErrInternal         ErrorCode = "SVC_INTERNAL"
)

// HTTPStatus returns the HTTP status code for this error code.
func (e ErrorCode) HTTPStatus() int {
	switch e {
	case ErrBadRequest:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrNotFound:
		return http.StatusNotFound
	case ErrMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}
