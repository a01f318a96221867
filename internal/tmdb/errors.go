package tmdb

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidURL is returned when the request URL cannot be composed.
	ErrInvalidURL = errors.New("invalid url")
	// ErrEmptyData is returned when a successful response carries no body.
	ErrEmptyData = errors.New("empty response body")
)

// HTTPError is returned for responses outside the 2xx band.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("unexpected status code %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, truncate(e.Body, 256))
}

// DecodeError is returned when the body is not the expected JSON shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "failed to decode response: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// TransportError covers network failures and timeouts.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "request failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
