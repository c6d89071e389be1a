package errors

import (
	"errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, preserving the inner code
// so typed failures survive orchestration layers.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	code := GetCode(err)
	if code == "UNKNOWN" {
		code = CodeInternalError
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// WrapCode wraps an error under an explicit code, overriding whatever the
// chain carries.
func WrapCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// GetCode returns the code of the nearest AppError in the chain, or
// "UNKNOWN" when there is none.
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether the error chain carries the given code.
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// Error codes. The first five mirror the benchmark error taxonomy surfaced
// to callers; the rest are operational.
const (
	CodeDatasetError      = "DATASET_ERROR"
	CodeUnknownMethod     = "UNKNOWN_METHOD"
	CodeInvalidParams     = "INVALID_PARAMS"
	CodeResourceExhausted = "RESOURCE_EXHAUSTED"
	CodeScoreUnavailable  = "SCORE_UNAVAILABLE"

	CodeConfigInvalid = "CONFIG_INVALID"
	CodeDatabaseError = "DATABASE_ERROR"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeInternalError = "INTERNAL_ERROR"
)

// Common error constructors

func DatasetError(message string) *AppError {
	return New(CodeDatasetError, message)
}

func DatasetErrorf(format string, args ...interface{}) *AppError {
	return New(CodeDatasetError, fmt.Sprintf(format, args...))
}

func UnknownMethod(identifier string) *AppError {
	return New(CodeUnknownMethod, fmt.Sprintf("unknown method %q", identifier))
}

func InvalidParams(message string) *AppError {
	return New(CodeInvalidParams, message)
}

func ResourceExhausted(message string) *AppError {
	return New(CodeResourceExhausted, message)
}

// ScoreUnavailable signals that a detector cannot produce probabilistic
// scores. Callers downgrade the report (AUC undefined) instead of failing.
func ScoreUnavailable(method string) *AppError {
	return New(CodeScoreUnavailable, fmt.Sprintf("method %q yields no probabilistic scores", method))
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
