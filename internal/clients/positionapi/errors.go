package positionapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ClientErrorKind groups 4xx responses for user-facing messaging
type ClientErrorKind string

// Client error kinds
const (
	KindUnauthorized ClientErrorKind = "unauthorized"
	KindNotFound     ClientErrorKind = "not_found"
	KindGeneric      ClientErrorKind = "client"
)

// ClientError is a terminal HTTP 4xx response. It is never retried.
type ClientError struct {
	Status int
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("positions API returned %d %s", e.Status, http.StatusText(e.Status))
}

// Kind classifies the status for messaging
func (e *ClientError) Kind() ClientErrorKind {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindGeneric
	}
}

// ServerError is a retryable HTTP 5xx (or otherwise unexpected) response
type ServerError struct {
	Status int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("positions API returned %d %s", e.Status, http.StatusText(e.Status))
}

// NetworkError is a retryable transport failure, including per-attempt timeouts
type NetworkError struct {
	Err     error
	Timeout bool
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("positions request timed out: %v", e.Err)
	}
	return fmt.Sprintf("positions request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// MalformedResponseError is a successful response whose body is not a JSON array.
// It is retried like any other attempt failure even though the same body is
// likely to come back.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "malformed positions response: " + e.Reason
}

// ExhaustedRetriesError is returned once every allowed attempt failed with a
// retryable error. It unwraps to the last underlying error.
type ExhaustedRetriesError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("positions fetch failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedRetriesError) Unwrap() error { return e.Last }

// Retryable reports whether an attempt error allows another attempt
func Retryable(err error) bool {
	var (
		serverErr    *ServerError
		networkErr   *NetworkError
		malformedErr *MalformedResponseError
	)
	return errors.As(err, &serverErr) || errors.As(err, &networkErr) || errors.As(err, &malformedErr)
}
