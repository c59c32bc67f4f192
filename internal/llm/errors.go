package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the completion endpoint is unreachable.
	ErrUnavailable = errors.New("ai server unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("ai request timed out")

	// ErrInvalidOutput indicates the response body was not usable.
	ErrInvalidOutput = errors.New("invalid ai output")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("ai retry attempts exhausted")
)

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("AI API error %d: %s", e.Code, e.Body)
}

// Temporary reports whether retrying could help.
func (e *StatusError) Temporary() bool {
	return e.Code == 429 || e.Code >= 500
}
