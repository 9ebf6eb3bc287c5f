package api

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the backend
type APIError struct {
	Op      string // Client operation, e.g. "create menu item"
	Status  int    // HTTP status code
	Message string // Server-supplied message, may be empty
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %d %s: %s", e.Op, e.Status, http.StatusText(e.Status), e.Message)
	}
	return fmt.Sprintf("%s: %d %s", e.Op, e.Status, http.StatusText(e.Status))
}

// Unauthorized reports whether the backend rejected the credentials or token
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// NetworkError means the request never produced a response
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError means a 2xx response body could not be understood
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: unexpected response body: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ServerMessage returns the server-supplied message carried by err, if any
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}

// IsUnauthorized reports whether err is a 401 from the backend
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}
