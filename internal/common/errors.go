package common

import (
	"errors"
	"fmt"
)

// Error codes for the four failure families the pipelines recognize.
const (
	CodeUserInput      = "USER_INPUT"
	CodeUpstream       = "UPSTREAM"
	CodeParse          = "PARSE"
	CodeResourceLocked = "RESOURCE_LOCKED"
)

// AppError represents application-specific errors
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

// Common application errors
var (
	ErrNoFile       = errors.New("no file provided")
	ErrInvalidInput = errors.New("invalid input")
	ErrUpstream     = errors.New("upstream model call failed")
	ErrMalformed    = errors.New("malformed data")
	ErrOutputLocked = errors.New("output file locked")
	ErrInternal     = errors.New("internal error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func UserInputError(message string) error {
	return NewAppError(CodeUserInput, message, ErrInvalidInput)
}

func UpstreamError(message string, cause error) error {
	return NewAppError(CodeUpstream, message, cause)
}

func ParseError(message string, cause error) error {
	return NewAppError(CodeParse, message, cause)
}

func ResourceLockedError(message string, cause error) error {
	return NewAppError(CodeResourceLocked, message, cause)
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// CodeOf returns the AppError code for err, or empty string when err carries none.
func CodeOf(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
