package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeConnectivity = "CONNECTIVITY"
	ErrCodeAPI          = "API_ERROR"
	ErrCodeOffline      = "UNAVAILABLE_OFFLINE"
	ErrCodeStorage      = "STORAGE_ERROR"
)

// APIError is a non-connectivity backend failure: a 4xx validation or
// authorization error, or a 5xx outside the retry set. It carries the
// status and the server-provided message verbatim so the session layer
// can surface it with a retry affordance.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", ErrCodeAPI, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: status %d", ErrCodeAPI, e.Status)
}

// NewAPIError creates an APIError from a status code and server message.
func NewAPIError(status int, message string) *APIError {
	return &APIError{Status: status, Message: message}
}

// ConnectivityError marks a transient transport-level failure: no
// response at all, or a gateway status in the retry set. The gateway
// absorbs these by falling back to the local store.
type ConnectivityError struct {
	Status int // 0 when no response was received
	Err    error
}

func (e *ConnectivityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", ErrCodeConnectivity, e.Err)
	}
	return fmt.Sprintf("%s: status %d", ErrCodeConnectivity, e.Status)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// NewConnectivityError wraps a transport error with no response.
func NewConnectivityError(err error) *ConnectivityError {
	return &ConnectivityError{Err: err}
}

// NewConnectivityStatusError marks a retryable gateway status.
func NewConnectivityStatusError(status int) *ConnectivityError {
	return &ConnectivityError{Status: status}
}

// RetryableStatus reports whether a status code counts as a
// connectivity failure rather than a server-side error.
func RetryableStatus(status int) bool {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// IsConnectivity reports whether err is connectivity-classified.
func IsConnectivity(err error) bool {
	var ce *ConnectivityError
	return stderrors.As(err, &ce)
}

// OfflineError signals that an endpoint has no cache fallback and the
// client is offline. Distinct from a generic error so the UI can show a
// clear "unavailable offline" message.
type OfflineError struct {
	Path string
}

func (e *OfflineError) Error() string {
	return fmt.Sprintf("%s: %s is not available offline", ErrCodeOffline, e.Path)
}

// NewOfflineError creates an OfflineError for the given endpoint path.
func NewOfflineError(path string) *OfflineError {
	return &OfflineError{Path: path}
}

// IsOffline reports whether err is an offline-unavailable error.
func IsOffline(err error) bool {
	var oe *OfflineError
	return stderrors.As(err, &oe)
}
