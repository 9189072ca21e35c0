package bugzilla

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by the Bugzilla client.
var (
	// ErrNotFound is returned by GetBug when the server returns no bug
	// for the requested ID.
	ErrNotFound = errors.New("bug not found")

	// ErrNoIDs is returned when a query is attempted with an empty ID list.
	ErrNoIDs = errors.New("no bug IDs given")
)

// APIError represents a failure response from the Bugzilla REST API. When
// the server returned its JSON error envelope, Code and Message carry the
// Bugzilla error code and message; otherwise Message holds the raw body.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("bugzilla API error %d: %s (HTTP %d)", e.Code, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("bugzilla API error: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether the error indicates a missing resource.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized reports whether the error indicates an authentication or
// authorization failure.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// newAPIError builds an APIError from a response body, decoding the Bugzilla
// error envelope when present.
func newAPIError(statusCode int, body []byte) *APIError {
	var envelope apiErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error {
		return &APIError{
			StatusCode: statusCode,
			Code:       envelope.Code,
			Message:    envelope.Message,
		}
	}
	return &APIError{
		StatusCode: statusCode,
		Message:    strings.TrimSpace(string(body)),
	}
}
