package amtraker

import (
	"fmt"
	"strings"
)

// RequestError means the request could not be sent or no response arrived:
// DNS failure, connection refused, timeout, caller cancellation. The
// underlying transport error is wrapped, never swallowed.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("unable to send the request: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// DecodeError means a response body arrived but did not match the expected
// schema. Path and Response are populated only by the debug entry points:
// Path is the dotted JSON path of the offending field and Response the raw
// body text, so schema drift can be triaged without reproducing the call.
type DecodeError struct {
	Err      error
	Path     string
	Response string
}

func (e *DecodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("unable to decode the received value at %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("unable to decode the received value: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// APIError is an application-level error reported by the service itself,
// either as a non-200 status or as an error envelope where data was
// expected.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API returned an error response: %s", e.Message)
}

// fieldError carries the location of a decode failure while it travels up
// through the entity decoders. The public surface is DecodeError; the path
// is only exposed when a debug entry point asks for it.
type fieldError struct {
	path []string
	err  error
}

func (e *fieldError) Error() string { return e.err.Error() }

func (e *fieldError) Unwrap() error { return e.err }

func (e *fieldError) Path() string { return strings.Join(e.path, ".") }
