package errorz

import "errors"

var (
	// ErrFetchFailure means a preference or liked-events lookup failed; the current tick is aborted.
	ErrFetchFailure = errors.New("fetch failure")
	// ErrStorageFailure means the persistent key-value slot could not be read or written.
	ErrStorageFailure = errors.New("storage failure")
	ErrInvalidTime    = errors.New("invalid time")
	ErrInvalidToken   = errors.New("invalid session token")
	ErrNotFound       = errors.New("not found")
)
