package common

import (
	"errors"
	"fmt"
)

// Codes carried by AppError.
const (
	CodeConfig            = "CONFIG_ERROR"
	CodeInvalidExtraction = "INVALID_EXTRACTION"
	CodeInvalidFormFields = "INVALID_FORM_FIELDS"
	CodeInvalidEvent      = "INVALID_EVENT"
	CodeInvalidProduct    = "INVALID_PRODUCT"
	CodeInvalidStock      = "INVALID_STOCK"
	CodeInternal          = "INTERNAL"
)

// AppError is an order pipeline failure with a stable code for logs and
// fallback orders.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Sentinel causes. Match them with errors.Is.
var (
	ErrNotFound     = errors.New("no such product or stock entry")
	ErrInvalidInput = errors.New("malformed order input")
	ErrDatabase     = errors.New("order store failure")
	ErrValidation   = errors.New("catalog data rejected")
	ErrUnavailable  = errors.New("stock service unavailable")
)

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the code of the outermost AppError in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// Retryable reports whether err comes from a collaborator that may recover,
// as opposed to bad input that will fail the same way again.
func Retryable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrDatabase)
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
