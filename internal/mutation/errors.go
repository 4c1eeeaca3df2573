package mutation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when a project ID, dataset or token
	// is missing.
	ErrInvalidCredentials = errors.New("credentials are not valid")

	// ErrMissingID is returned when an operation needs a document ID and
	// none was given.
	ErrMissingID = errors.New("document ID is required")

	// ErrUnknownOperation is returned for an operation name outside the
	// supported set.
	ErrUnknownOperation = errors.New("unknown operation")
)

// APIError is a non-2xx response from the Sanity API.
type APIError struct {
	operation  string
	statusCode int
	errorType  string
	message    string
}

func (e *APIError) Error() string {
	if e.errorType != "" {
		return fmt.Sprintf("%s: HTTP %d: [%s] %s", e.operation, e.statusCode, e.errorType, e.message)
	}

	return fmt.Sprintf("%s: HTTP %d: %s", e.operation, e.statusCode, e.message)
}

func newAPIError(operation string, statusCode int, errorType, message string) *APIError {
	return &APIError{
		operation:  operation,
		statusCode: statusCode,
		errorType:  errorType,
		message:    message,
	}
}

// StatusCode returns the HTTP status code of the response.
func (e *APIError) StatusCode() int { return e.statusCode }

// ErrorType returns the Sanity error type, e.g. "mutationError".
func (e *APIError) ErrorType() string { return e.errorType }

// Message returns the error description sent by the API.
func (e *APIError) Message() string { return e.message }

// Operation returns the API call that failed.
func (e *APIError) Operation() string { return e.operation }

// IsNotFound reports whether err is an API error with HTTP 404 status.
func IsNotFound(err error) bool { return HasStatusCode(err, http.StatusNotFound) }

// IsUnauthorized reports whether err is an API error with HTTP 401 status.
func IsUnauthorized(err error) bool { return HasStatusCode(err, http.StatusUnauthorized) }

// IsForbidden reports whether err is an API error with HTTP 403 status.
func IsForbidden(err error) bool { return HasStatusCode(err, http.StatusForbidden) }

// IsConflict reports whether err is an API error with HTTP 409 status, as
// returned by create for an existing ID.
func IsConflict(err error) bool { return HasStatusCode(err, http.StatusConflict) }

// HasStatusCode reports whether err is an API error with the given status.
func HasStatusCode(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.statusCode == code
}

// errorBody covers both error envelopes the API uses:
//
//	{"error": {"type": "mutationError", "description": "..."}}
//	{"error": "Unauthorized", "message": "...", "statusCode": 401}
type errorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

type errorDetail struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// parseError extracts the error type and message from a response body.
func parseError(body []byte) (errType, msg string) {
	var eb errorBody
	if json.Unmarshal(body, &eb) != nil || len(eb.Error) == 0 {
		return "", ""
	}

	var detail errorDetail
	if json.Unmarshal(eb.Error, &detail) == nil && detail.Description != "" {
		return detail.Type, detail.Description
	}

	var name string
	if json.Unmarshal(eb.Error, &name) == nil {
		if eb.Message != "" {
			return name, eb.Message
		}

		return "", name
	}

	return "", ""
}
