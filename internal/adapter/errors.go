package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// APIError is a non-2xx server response. Code and Description carry the
// server's `{error, error_description}` body verbatim; nothing is
// translated or retried at this layer.
type APIError struct {
	// Status is the HTTP status code of the response.
	Status int `json:"-"`

	// Code is the machine-readable error identifier from the server.
	Code string `json:"error"`

	// Description is the human-readable error text from the server.
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("server error %d (%s): %s", e.Status, e.Code, e.Description)
	}
	return fmt.Sprintf("server error %d: %s", e.Status, e.Code)
}

// IsNotFound reports whether err is an [*APIError] with a 404 status.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err is an [*APIError] with a 401 status.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	apiErr := &APIError{Status: code}
	if err := json.Unmarshal(resp.Body(), apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = http.StatusText(code)
	}
	return apiErr
}
