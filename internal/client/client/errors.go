package client

import "errors"

var (
	// ErrUnavailable covers every transport failure: refused connection,
	// DNS errors, timeouts, cancelled contexts.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized is returned when the server rejects the bearer credential
	// of an authenticated call.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMalformedResponse means the server answered with something that is not
	// the expected JSON envelope.
	ErrMalformedResponse = errors.New("malformed server response")
)
