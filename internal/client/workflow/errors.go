package workflow

import "errors"

var (
	// ErrNoImage is returned by Convert when nothing has been selected.
	// No network call is made.
	ErrNoImage = errors.New("no image selected")

	// ErrBusy is returned when a conversion is already in flight. Only one
	// conversion may run per workflow instance.
	ErrBusy = errors.New("conversion already in progress")

	// ErrAbandoned marks a conversion whose result arrived after the
	// workflow was reset; the result has been discarded, not applied.
	ErrAbandoned = errors.New("conversion abandoned")

	// ErrNoPreview is returned by Finalize and friends when the referenced
	// item does not exist locally.
	ErrNoPreview = errors.New("no pending preview")
)
