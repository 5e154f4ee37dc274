package apierror

import (
	"fmt"
	"net/http"
)

// AppError is the error type every service operation returns for
// failures that map to an API response. Code carries the HTTP status
// the handler layer responds with; Field names the offending input
// field when there is one.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ItemError is a single failure inside a batch request, addressed by
// the zero-based index of the offending item.
type ItemError struct {
	Index   int    `json:"index"`
	Message string `json:"error_msg"`
	Field   string `json:"invalid_field,omitempty"`
}

// BatchError rejects a whole batch and carries every per-item failure.
type BatchError struct {
	Message string      `json:"message"`
	Items   []ItemError `json:"items"`
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s (%d items)", e.Message, len(e.Items))
}

func Validation(message, field string) *AppError {
	return &AppError{
		Code:    http.StatusNotAcceptable,
		Message: message,
		Field:   field,
	}
}

func NotFound(message string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: message,
	}
}

func BadRequest(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

func PayloadTooLarge(message string) *AppError {
	return &AppError{
		Code:    http.StatusRequestEntityTooLarge,
		Message: message,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnauthorized,
		Message: message,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: "internal server error",
		Err:     err,
	}
}

func BatchValidation(message string, items []ItemError) *BatchError {
	return &BatchError{
		Message: message,
		Items:   items,
	}
}
