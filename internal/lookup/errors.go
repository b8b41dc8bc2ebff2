package lookup

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// ErrNotFound is returned when the lookup service does not know the id.
var ErrNotFound = errors.New("not found")

// Network error codes reported in NetworkError.Code.
const (
	CodeTimeout      = "ETIMEDOUT"
	CodeRefused      = "ECONNREFUSED"
	CodeCanceled     = "ERR_CANCELED"
	CodeNetwork      = "ERR_NETWORK"
	CodeBadRequest   = "ERR_BAD_REQUEST"
	CodeBadResponse  = "ERR_BAD_RESPONSE"
	CodeUnauthorized = "ERR_UNAUTHORIZED"
)

// NetworkError is a transport or service failure talking to the lookup
// service: the request never got a usable HTTP answer, or the service
// answered with an error status.
type NetworkError struct {
	Code       string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("lookup %s (status %d): %v", e.Code, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("lookup %s: %v", e.Code, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// transportError classifies an error returned by http.Client.Do.
func transportError(err error) *NetworkError {
	code := CodeNetwork
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		code = CodeTimeout
	case errors.Is(err, context.Canceled):
		code = CodeCanceled
	case errors.Is(err, syscall.ECONNREFUSED):
		code = CodeRefused
	}
	return &NetworkError{Code: code, Err: err}
}

// statusError builds the NetworkError for a non-2xx response. A 404 wraps
// ErrNotFound.
func statusError(status int, body []byte) error {
	var code string
	switch {
	case status == 404:
		return &NetworkError{Code: CodeBadRequest, StatusCode: status, Err: ErrNotFound}
	case status == 401 || status == 403:
		code = CodeUnauthorized
	case status >= 500:
		code = CodeBadResponse
	default:
		code = CodeBadRequest
	}
	return &NetworkError{Code: code, StatusCode: status, Err: fmt.Errorf("%s", body)}
}
