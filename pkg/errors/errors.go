// Package errors defines the sentinel errors shared across the directory and
// maps them to HTTP status codes and client-safe messages.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrSourceUnavailable   = errors.New("advocate source unavailable")
	ErrSourceMisconfigured = errors.New("advocate source misconfigured")
	ErrInvalidRecord       = errors.New("invalid advocate record")
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotSupported        = errors.New("operation not supported by source")
	ErrInternal            = errors.New("internal error")
	ErrTimeout             = errors.New("operation timed out")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotSupported):
		return http.StatusConflict
	case errors.Is(err, ErrSourceUnavailable), errors.Is(err, ErrInvalidRecord), errors.Is(err, ErrTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text safe to return to a client for err: the AppError
// message, the text of a known sentinel, or a generic internal error. Driver
// and network details never leak.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	for _, sentinel := range []error{
		ErrInvalidInput,
		ErrNotSupported,
		ErrInvalidRecord,
		ErrSourceUnavailable,
		ErrSourceMisconfigured,
		ErrTimeout,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return ErrInternal.Error()
}
