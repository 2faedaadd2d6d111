package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrDuplicateAccount is returned when an email, username, phone or business name is already registered.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrInvalidCredentials is returned when a login identifier or password does not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidToken is returned when a refresh or access token is invalid, expired or revoked.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Kind classifies a registration failure.
type Kind string

const (
	KindMissingField   Kind = "MISSING_FIELD"
	KindFormatInvalid  Kind = "FORMAT_INVALID"
	KindMismatch       Kind = "MISMATCH"
	KindMissingConsent Kind = "MISSING_CONSENT"
)

// ValidationError is the first failing registration check. Field names the
// offending input, Message is safe to show to the caller.
type ValidationError struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MissingField reports a required input that was absent or blank.
func MissingField(field, message string) *ValidationError {
	return &ValidationError{Kind: KindMissingField, Field: field, Message: message}
}

// FormatInvalid reports an input that failed its format check.
func FormatInvalid(field, message string) *ValidationError {
	return &ValidationError{Kind: KindFormatInvalid, Field: field, Message: message}
}

// Mismatch reports a confirmation field that does not equal its original.
func Mismatch(field, message string) *ValidationError {
	return &ValidationError{Kind: KindMismatch, Field: field, Message: message}
}

// MissingConsent reports that the terms were not agreed to.
func MissingConsent(field, message string) *ValidationError {
	return &ValidationError{Kind: KindMissingConsent, Field: field, Message: message}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Field      string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
		Field: e.Field,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var verr *ValidationError
	if errors.As(err, &verr) {
		httpErr := NewHTTPError(http.StatusBadRequest, verr.Message, string(verr.Kind))
		httpErr.Field = verr.Field
		return httpErr
	}

	switch {
	case errors.Is(err, ErrDuplicateAccount):
		return NewHTTPError(http.StatusBadRequest, ErrDuplicateAccount.Error(), "DUPLICATE_ACCOUNT")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidToken.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, ErrNotFound.Error(), "NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
