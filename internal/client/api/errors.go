package api

import "errors"

var (
	// ErrUnavailable marks transport failures, timeouts and 5xx responses.
	// The operation may be retried by the user.
	ErrUnavailable = errors.New("server unavailable")
)
