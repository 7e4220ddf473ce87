package processor

import "errors"

var (
	// ErrMalformedPayload is returned when the request body is not a JSON
	// object. Nothing is recorded.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrInvalidArgument is returned for out-of-range query arguments.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPersistenceFailure is returned when the durable append failed. The
	// event has still been added to the in-memory history.
	ErrPersistenceFailure = errors.New("persistence failure")
)
