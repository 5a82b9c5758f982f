package sudokuapi

import (
	"errors"
	"fmt"
	"net"
)

// ErrSuperseded is returned by the Loader when a newer request replaced an
// in-flight one.
var ErrSuperseded = errors.New("sudokuapi: request superseded")

// RequestError wraps a transport-level failure (DNS, refused connection,
// timeout, canceled context).
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("sudokuapi: %s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the underlying failure was a timeout.
func (e *RequestError) Timeout() bool {
	var netErr net.Error
	if errors.As(e.Err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// HTTPError is a non-200 response from the puzzle API.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("sudokuapi: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsServerError reports 5xx responses.
func (e *HTTPError) IsServerError() bool {
	return e.StatusCode >= 500
}

// IsRateLimited reports 429 responses.
func (e *HTTPError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// ValidationError means the upstream answered 200 but the payload does not
// hold a usable puzzle.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("sudokuapi: invalid %s: %s", e.Field, e.Reason)
}
