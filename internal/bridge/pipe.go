package bridge

import (
	"errors"
	"io"
)

// Pipe joins a read stream and a write stream into one connection, as used
// for the two pipes between the host and a renderer child.
type Pipe struct {
	R io.ReadCloser
	W io.WriteCloser
}

// Read implements io.Reader.
func (p Pipe) Read(b []byte) (int, error) { return p.R.Read(b) }

// Write implements io.Writer.
func (p Pipe) Write(b []byte) (int, error) { return p.W.Write(b) }

// Close closes both streams.
func (p Pipe) Close() error {
	return errors.Join(p.W.Close(), p.R.Close())
}
