package lookup

import "errors"

var (
	// ErrInvalidArgument is returned for a bad configuration value or a
	// search method that is not in the current method set.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPreconditionFailed is returned when the webstore name is read
	// before it was set.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrTransport wraps DNS, TLS and connection failures.
	ErrTransport = errors.New("transport failure")

	// ErrRequestFailed is recorded when the API answers with a non-200 status.
	ErrRequestFailed = errors.New("request failed")

	// ErrDecode is recorded when the response body cannot be parsed.
	ErrDecode = errors.New("decode failure")
)
