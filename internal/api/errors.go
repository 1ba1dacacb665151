package api

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error unwraps to exactly one of these.
var (
	// ErrUnauthorized indicates a missing, invalid or expired session.
	ErrUnauthorized = errors.New("api: unauthorized (session expired or invalid)")
	// ErrForbidden indicates the request is not allowed for this account.
	ErrForbidden = errors.New("api: forbidden")
	// ErrLimitReached indicates the weekly analysis quota is used up.
	ErrLimitReached = errors.New("api: analysis limit reached")
	// ErrNotFound indicates the resource does not exist.
	ErrNotFound = errors.New("api: not found")
	// ErrNetwork indicates the backend could not be reached.
	ErrNetwork = errors.New("api: network error")
	// ErrServer covers every other non-2xx response.
	ErrServer = errors.New("api: server error")
)

const networkMessage = "could not reach the server, check your connection and try again"

// Error is the normalized failure returned by every Client call.
// Message is safe to show to the user.
type Error struct {
	Status  int
	Message string

	kind  error
	cause error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the error kind and, for network failures, the cause.
func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

// LimitError is returned when the analysis quota is exhausted.
type LimitError struct {
	Err            *Error
	DaysUntilReset int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("weekly free analyses used up, next reset in %d day(s)", e.DaysUntilReset)
}

func (e *LimitError) Unwrap() error {
	return e.Err
}

// Message returns the user-facing message carried by err, or fallback when
// err is not an API error.
func Message(err error, fallback string) string {
	var limit *LimitError
	if errors.As(err, &limit) {
		return limit.Error()
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Status returns the HTTP status carried by err, or 0.
func Status(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
