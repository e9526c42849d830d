package renderer

import "errors"

var (
	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("renderer already running")

	// ErrNoBackend is returned when Options has no Backend.
	ErrNoBackend = errors.New("renderer requires a backend")

	// ErrNoConn is returned when Options has no bridge connection.
	ErrNoConn = errors.New("renderer requires a bridge connection")
)
