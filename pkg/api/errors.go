package api

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout means the request deadline expired before a response arrived.
	ErrTimeout = errors.New("api: request timed out")
	// ErrNetwork means the server could not be reached.
	ErrNetwork = errors.New("api: network failure")
	// ErrMalformedResponse means the response body was not the expected JSON.
	ErrMalformedResponse = errors.New("api: malformed response body")
)

// StatusError is returned when the server answered with a non-2xx status and a
// parseable body. Answer holds the server's explanation, if any.
type StatusError struct {
	Code   int
	Answer string
}

func (e *StatusError) Error() string {
	if e.Answer == "" {
		return fmt.Sprintf("api: server returned status %d", e.Code)
	}
	return fmt.Sprintf("api: server returned status %d: %s", e.Code, e.Answer)
}
