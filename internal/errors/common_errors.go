package errors

import (
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeInput    ErrorType = "INPUT_READ"
	ErrTypeOutput   ErrorType = "OUTPUT_WRITE"
	ErrTypeConfig   ErrorType = "CONFIG_INVALID"
	ErrTypeRender   ErrorType = "RENDER"
	ErrTypeSnapshot ErrorType = "SNAPSHOT_FAILED"
	ErrTypeNotFound ErrorType = "NOT_FOUND"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Op      string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	prefix := fmt.Sprintf("[%s]", e.Type)
	if e.Op != "" {
		prefix = fmt.Sprintf("[%s] %s", e.Type, e.Op)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError of the same type, so sentinels such as
// ErrInputRead can be used with errors.Is
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type && t.Op == "" && t.Message == ""
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Sentinels for errors.Is checks
var (
	ErrInputRead      = &AppError{Type: ErrTypeInput}
	ErrOutputWrite    = &AppError{Type: ErrTypeOutput}
	ErrConfigInvalid  = &AppError{Type: ErrTypeConfig}
	ErrSnapshotFailed = &AppError{Type: ErrTypeSnapshot}
)

// NewAppError creates a new application error
func NewAppError(errType ErrorType, op, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Op:      op,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewInputError creates an error for a table that could not be read
func NewInputError(op, message string, cause error) *AppError {
	return NewAppError(ErrTypeInput, op, message, cause)
}

// NewOutputError creates an error for a document that could not be written
func NewOutputError(op, message string, cause error) *AppError {
	return NewAppError(ErrTypeOutput, op, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, "config", message, cause)
}

// NewRenderError creates an error raised while assembling the document
func NewRenderError(message string, cause error) *AppError {
	return NewAppError(ErrTypeRender, "render", message, cause)
}

// NewSnapshotError creates a snapshot error
func NewSnapshotError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSnapshot, "snapshot", message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, "", fmt.Sprintf("%s not found", resource), nil)
}

// ExitCode maps an error to a process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var appErr *AppError
	if As(err, &appErr) {
		switch appErr.Type {
		case ErrTypeConfig:
			return 2
		case ErrTypeInput:
			return 3
		case ErrTypeOutput:
			return 4
		}
	}
	return 1
}
