package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRequired is returned when a cart mutation is attempted without a token
	ErrAuthRequired = errors.New("authentication required")

	// ErrDuplicateItem is returned when a duplicate-prevented add finds the item already in the cart
	ErrDuplicateItem = errors.New("item already in cart")

	// ErrBackendUnreachable is returned when the backend produced no response at all
	ErrBackendUnreachable = errors.New("backend unreachable")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)

// ServerError is a structured failure response from the backend: a non-2xx
// status carrying a message. For 404 responses the message is the transport
// status text verbatim; otherwise it is the message field of the response
// body.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

// AsServerError unwraps err into a ServerError if one is in its chain.
func AsServerError(err error) (*ServerError, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
