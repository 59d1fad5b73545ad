package speech

import (
	"errors"
	"fmt"
)

// Common speech errors
var (
	// ErrEngineUnavailable indicates no usable TTS engine exists on this
	// platform. The feature is disabled when it is returned at startup.
	ErrEngineUnavailable = errors.New("no usable speech engine")

	// ErrUnknownEngine indicates an unrecognized engine name.
	ErrUnknownEngine = errors.New("unknown speech engine")
)

// ErrorCode identifies specific error types
type ErrorCode string

const (
	ErrorCodeEngineUnavailable ErrorCode = "ENGINE_UNAVAILABLE"
	ErrorCodeEngineFailure     ErrorCode = "ENGINE_FAILURE"
	ErrorCodeNoVoices          ErrorCode = "NO_VOICES"
)

// Error is a speech error with a code.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// NewError creates a new speech error.
func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsFatal returns true if the error disables speech entirely.
func (e *Error) IsFatal() bool {
	switch e.Code {
	case ErrorCodeEngineUnavailable, ErrorCodeNoVoices:
		return true
	default:
		return false
	}
}
