package workspace

import "errors"

// Workspace errors.
var (
	// ErrNoActiveTab indicates an operation needs an active tab and none is open.
	ErrNoActiveTab = errors.New("no active tab")

	// ErrIndexOutOfRange indicates a tab index outside [0, Len).
	ErrIndexOutOfRange = errors.New("tab index out of range")

	// ErrNotSaving indicates a save result arrived for a tab with no save in flight.
	ErrNotSaving = errors.New("no save in progress")
)
