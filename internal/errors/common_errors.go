package errors

import "fmt"

// ErrorType classifies collector and loader failures.
type ErrorType string

const (
	ErrTypeNetwork ErrorType = "NETWORK"
	ErrTypeParsing ErrorType = "PARSING"
	ErrTypeConfig  ErrorType = "CONFIG"
)

// AppError is a classified failure with optional key/value context for
// logs and problem responses.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext attaches key=value and returns e for chaining.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func newAppError(t ErrorType, message string, cause error) *AppError {
	return &AppError{Type: t, Message: message, Cause: cause}
}

// NewNetworkError is a failed or rejected upstream request.
func NewNetworkError(message string, cause error) *AppError {
	return newAppError(ErrTypeNetwork, message, cause)
}

// NewParsingError is an upstream answer that could not be understood.
func NewParsingError(message string, cause error) *AppError {
	return newAppError(ErrTypeParsing, message, cause)
}

// NewConfigError is a bad endpoint or setting.
func NewConfigError(message string, cause error) *AppError {
	return newAppError(ErrTypeConfig, message, cause)
}
