package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is the single failure kind of the market API boundary: the HTTP
// status (or 502 when no usable response arrived), the underlying message and
// a label suitable for showing to the user.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Label      string `json:"label"`
}

// MarshalJSON keeps the status code and label when the error is embedded in a view payload.
func (e *APIError) MarshalJSON() ([]byte, error) {
	type plain APIError
	return json.Marshal((*plain)(e))
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d): %s", e.Label, e.StatusCode, e.Message)
}

// NewAPIError builds an APIError with the given status.
func NewAPIError(status int, message, label string) *APIError {
	return &APIError{StatusCode: status, Message: message, Label: label}
}

// AsAPIError converts any error into an APIError. Errors that are not already
// APIErrors become 502s carrying err's message and the given label.
func AsAPIError(err error, label string) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewAPIError(http.StatusBadGateway, err.Error(), label)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
