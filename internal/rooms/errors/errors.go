package errors

import "errors"

var (
	ErrNotFound = errors.New("room not found")

	ErrInvalidID = errors.New("invalid room ID format")

	// ErrStatusConflict means the conditional status update matched the id
	// but not the expected status: the room exists in another state.
	ErrStatusConflict = errors.New("room status guard failed")
)
