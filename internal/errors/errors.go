package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError is an error the HTTP layer answers with a fixed status and a
// machine readable code.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func newAPIError(status int, code, message string, details interface{}) *APIError {
	return &APIError{StatusCode: status, ErrorCode: code, Message: message, Details: details}
}

// ErrRateLimitExceeded is answered by the client log rate limiter.
var ErrRateLimitExceeded = newAPIError(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded", nil)

// ValidationError names one rejected request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the details payload of a VALIDATION_FAILED error.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// NewValidationErrors reports several rejected fields at once.
func NewValidationErrors(errs []ValidationError) *APIError {
	return newAPIError(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed",
		ValidationErrors{Errors: errs})
}

// ErrValidation reports a single rejected field.
func ErrValidation(field, message string) *APIError {
	return NewValidationErrors([]ValidationError{{Field: field, Message: message}})
}

// InvalidRequestWithError reports a body that could not be decoded.
func InvalidRequestWithError(err error) *APIError {
	return newAPIError(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
}

// NotFoundError reports an unknown resource such as a chart name.
func NotFoundError(resource string) *APIError {
	return newAPIError(http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", resource), resource)
}

// DataUnavailableError is returned while the dashboard has no loaded data.
// message is shown to the end user as is.
func DataUnavailableError(message string) *APIError {
	return newAPIError(http.StatusServiceUnavailable, "DATA_UNAVAILABLE", message, nil)
}

// SourceLoadError reports that an upstream data source could not be read.
func SourceLoadError(message string, err error) *APIError {
	return newAPIError(http.StatusBadGateway, "SOURCE_LOAD_FAILED", message, err.Error())
}

// NewInternalError hides the cause behind a generic 500.
func NewInternalError(message string) *APIError {
	return newAPIError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message, nil)
}
