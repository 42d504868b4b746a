package vantage

import (
	"errors"
	"fmt"
)

// ClientError is the root of the client error taxonomy. All errors returned
// by the client wrap it, so callers can match the whole family with
// errors.Is(err, ClientError) and individual classes with the sentinels
// below.
type clientError string

func (e clientError) Error() string {
	return string(e)
}

const (
	// ErrClient matches any error originating from the Vantage client.
	ErrClient = clientError("vantage client error")

	// ErrConnection indicates the Host Command session is unavailable.
	ErrConnection = clientError("connection failed")

	// ErrLoginRequired indicates the controller requires authentication and
	// none was supplied.
	ErrLoginRequired = clientError("login required")

	// ErrLoginFailed indicates the supplied credentials were rejected.
	ErrLoginFailed = clientError("login failed")

	// ErrInvalidObject indicates the controller no longer recognises the
	// object id a request referred to.
	ErrInvalidObject = clientError("invalid object id")

	// ErrInvalidParameter indicates the controller rejected a command
	// argument.
	ErrInvalidParameter = clientError("invalid parameter")
)

// Unwrap chains every class sentinel to ErrClient.
func (e clientError) Unwrap() error {
	if e == ErrClient {
		return nil
	}

	return ErrClient
}

// IsAuthError reports whether the error is in the authentication class.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrLoginRequired) || errors.Is(err, ErrLoginFailed)
}

// Host Command protocol error codes.
const (
	errCodeInvalidParameter = 4
	errCodeInvalidVID       = 7
	errCodeLoginFailed      = 21
	errCodeLoginRequired    = 23
)

func errorForCode(code int, detail string) error {
	switch code {
	case errCodeInvalidParameter:
		return fmt.Errorf("%w: %s", ErrInvalidParameter, detail)
	case errCodeInvalidVID:
		return fmt.Errorf("%w: %s", ErrInvalidObject, detail)
	case errCodeLoginFailed:
		return fmt.Errorf("%w: %s", ErrLoginFailed, detail)
	case errCodeLoginRequired:
		return fmt.Errorf("%w: %s", ErrLoginRequired, detail)
	default:
		return fmt.Errorf("%w: code %d: %s", ErrClient, code, detail)
	}
}
