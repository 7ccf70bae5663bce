package qwant

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is matched by every *InvalidArgumentError.
	ErrInvalidArgument = errors.New("qwant: invalid argument")
	// ErrNotServed means the envelope carried no data at all.
	ErrNotServed = errors.New("qwant: request was not served")
)

// InvalidArgumentError is returned before any request is sent when an input
// fails validation.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("qwant: invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

// TransportError covers everything between building the request and reading
// a 2xx body: network, DNS and TLS failures, rate limiter waits and non-2xx
// statuses. StatusCode is zero when no response was received.
type TransportError struct {
	URL        string
	StatusCode int
	// Body holds at most the first KiB of a non-2xx response.
	Body []byte
	Err  error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("qwant: http %d from %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("qwant: request %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means the body was not JSON or did not fit the response model.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("qwant: decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// APIError is a query-level failure reported by the API through data.error_code,
// e.g. an unsupported locale.
type APIError struct {
	Status string
	Code   uint32
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("qwant api error: code=%d (status=%s)", e.Code, e.Status)
}
