package googleads

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrNoRefreshToken indicates no stored refresh token for the customer
	ErrNoRefreshToken = errors.New("no refresh token found for customer")
	// ErrNoLoginCustomer indicates no accessible account authorizes the customer
	ErrNoLoginCustomer = errors.New("no login customer found")
	// ErrEmptyResponse indicates a query unexpectedly returned no rows
	ErrEmptyResponse = errors.New("query returned no rows")
)

// APIError represents a Google Ads API error response
type APIError struct {
	StatusCode int
	Status     string
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("google ads API error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("google ads API error: status %d", e.StatusCode)
}

// Temporary reports whether the request may succeed if retried
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// newAPIError builds an APIError from a non-200 response body
func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Body:       string(body),
	}

	// The REST surface wraps errors as {"error": {"code", "message", "status"}};
	// streaming responses wrap the same object in a JSON array.
	var wrapped struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error.Message != "" {
		apiErr.Message = wrapped.Error.Message
		apiErr.Status = wrapped.Error.Status
		return apiErr
	}

	var wrappedList []struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &wrappedList); err == nil && len(wrappedList) > 0 {
		apiErr.Message = wrappedList[0].Error.Message
		apiErr.Status = wrappedList[0].Error.Status
	}

	return apiErr
}
