package common

import (
	"errors"
	"fmt"
)

// Failure taxonomy for the extraction pipeline. Match with errors.Is.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrReadFailure       = errors.New("file unreadable")
	ErrOCRFailure        = errors.New("ocr recognition failed")
	ErrRasterFailure     = errors.New("page rasterization failed")
	ErrAIRequestFailure  = errors.New("ai completion request failed")
	ErrAIParseFailure    = errors.New("no valid JSON in ai response")
)

// AppError carries a stable code and a human-readable message around a
// cause from the taxonomy above.
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

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
