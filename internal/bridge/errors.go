package bridge

import (
	"errors"
	"fmt"
)

// Standard errors returned by the bridge.
var (
	// ErrClosed indicates the endpoint has been closed.
	ErrClosed = errors.New("bridge closed")

	// ErrUnknownChannel indicates a message arrived for a channel with no handler.
	ErrUnknownChannel = errors.New("unknown channel")
)

// DecodeError reports a line or payload that could not be decoded.
type DecodeError struct {
	// Channel is the channel of the message, empty if the envelope was unreadable.
	Channel Channel
	// Line is the offending input, truncated for logging.
	Line string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Channel != "" {
		if e.Err != nil {
			return fmt.Sprintf("decode %s payload: %v", e.Channel, e.Err)
		}
		return fmt.Sprintf("decode %s payload", e.Channel)
	}
	if e.Err != nil {
		return fmt.Sprintf("decode message %q: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("decode message %q", e.Line)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
