package upstream

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Error is a failed upstream fetch. StatusCode is 0 when no response was received.
type Error struct {
	Service    string
	Method     string
	Endpoint   string
	StatusCode int
	Code       string
	cause      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s %s", e.Service, e.Method, e.Endpoint)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

// IsClientError reports a 4xx answer, meaning the upstream rejected the input.
func (e *Error) IsClientError() bool {
	return e.StatusCode >= http.StatusBadRequest && e.StatusCode < http.StatusInternalServerError
}

// AsError finds an *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var upstreamErr *Error
	if errors.As(err, &upstreamErr) {
		return upstreamErr, true
	}
	return nil, false
}

// ErrorCode returns the upstream error code carried by err, if any.
func ErrorCode(err error) string {
	if upstreamErr, ok := AsError(err); ok {
		return upstreamErr.Code
	}
	return ""
}
