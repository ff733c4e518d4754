package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError represents a single invalid field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Error codes for the sales upload flow
const (
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeMissingFile       = "MISSING_FILE"
	CodeSchemaMismatch    = "SCHEMA_MISMATCH"
	CodeEmptyInput        = "EMPTY_INPUT"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeMalformedInput    = "MALFORMED_INPUT"
	CodePayloadTooLarge   = "PAYLOAD_TOO_LARGE"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeNotFound          = "NOT_FOUND"
	CodeInternal          = "INTERNAL_SERVER_ERROR"
)

// Predefined error types for common scenarios
var (
	ErrMissingFile       = New(http.StatusBadRequest, CodeMissingFile, "No sales file was uploaded")
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, CodeRateLimitExceeded, "Rate limit exceeded")
	ErrInternalServer    = New(http.StatusInternalServerError, CodeInternal, "Internal server error")
)

// ErrValidation creates a validation error with field details
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// NewValidationErrors creates validation errors from multiple fields
func NewValidationErrors(errs []ValidationError) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", errs)
}

// SchemaMismatch reports required columns missing from an upload
func SchemaMismatch(missing []string) *APIError {
	return NewWithDetails(http.StatusUnprocessableEntity, CodeSchemaMismatch,
		fmt.Sprintf("Sales file is missing required column(s): %v", missing), missing)
}

// EmptyInput reports an upload with no data rows
func EmptyInput(detail string) *APIError {
	return New(http.StatusBadRequest, CodeEmptyInput, detail)
}

// UnsupportedFormat reports an upload that is neither CSV nor xlsx
func UnsupportedFormat(filename string) *APIError {
	return NewWithDetails(http.StatusUnsupportedMediaType, CodeUnsupportedFormat,
		"Only .csv and .xlsx sales files are supported", filename)
}

// MalformedInput reports a file that could not be parsed at all
func MalformedInput(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeMalformedInput, "Sales file could not be parsed", err.Error())
}

// PayloadTooLarge reports an upload over the configured size
func PayloadTooLarge(limit int64) *APIError {
	return NewWithDetails(http.StatusRequestEntityTooLarge, CodePayloadTooLarge,
		"Upload exceeds the maximum allowed size", map[string]int64{"max_bytes": limit})
}
