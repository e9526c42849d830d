package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"
)

// Message is one decoded envelope.
type Message struct {
	Channel Channel
	Seq     uint64
	Payload json.RawMessage
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v any) error {
	if len(m.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return &DecodeError{Channel: m.Channel, Err: err}
	}
	return nil
}

// HandlerFunc handles one message. Errors are logged by the endpoint.
type HandlerFunc func(ctx context.Context, msg Message) error

// Direction tells an Observer which way a message travelled.
type Direction int

const (
	// Outbound messages were sent by this endpoint.
	Outbound Direction = iota
	// Inbound messages were received by this endpoint.
	Inbound
)

// String returns "send" or "recv".
func (d Direction) String() string {
	if d == Outbound {
		return "send"
	}
	return "recv"
}

// Observer sees every message sent or received, after the fact.
type Observer func(dir Direction, msg Message)

// Option configures an Endpoint.
type Option func(*Endpoint)

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(e *Endpoint) {
		if l != nil {
			e.log = l
		}
	}
}

// WithObserver registers an Observer.
func WithObserver(o Observer) Option {
	return func(e *Endpoint) {
		e.observer = o
	}
}

// WithErrorHandler receives decode and handler errors in addition to the log.
func WithErrorHandler(fn func(error)) Option {
	return func(e *Endpoint) {
		e.onError = fn
	}
}

// Endpoint is one side of a bridge connection.
type Endpoint struct {
	reader *bufio.Reader
	writer io.Writer
	closer io.Closer

	writeMu sync.Mutex
	seq     uint64

	mu       sync.RWMutex
	handlers map[Channel]HandlerFunc

	log      *zap.SugaredLogger
	observer Observer
	onError  func(error)

	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// NewEndpoint creates an endpoint over rw.
func NewEndpoint(rw io.ReadWriteCloser, opts ...Option) *Endpoint {
	return NewEndpointSplit(rw, rw, rw, opts...)
}

// NewEndpointSplit creates an endpoint over separate read and write streams.
// c may be nil.
func NewEndpointSplit(r io.Reader, w io.Writer, c io.Closer, opts ...Option) *Endpoint {
	e := &Endpoint{
		reader:   bufio.NewReaderSize(r, 64*1024),
		writer:   w,
		closer:   c,
		handlers: make(map[Channel]HandlerFunc),
		log:      zap.NewNop().Sugar(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle registers fn for channel, replacing any previous handler.
func (e *Endpoint) Handle(channel Channel, fn HandlerFunc) {
	e.mu.Lock()
	e.handlers[channel] = fn
	e.mu.Unlock()
}

// Send writes one message. Sends are serialised; seq increases by one per
// successful send.
func (e *Endpoint) Send(ctx context.Context, channel Channel, payload any) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if payload == nil {
		payload = empty{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", channel, err)
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	seq := e.seq + 1
	line, err := encodeEnvelope(channel, seq, data)
	if err != nil {
		return err
	}
	if _, err := e.writer.Write(line); err != nil {
		if e.closed.Load() {
			return ErrClosed
		}
		return fmt.Errorf("write %s: %w", channel, err)
	}
	e.seq = seq

	if e.observer != nil {
		e.observer(Outbound, Message{Channel: channel, Seq: seq, Payload: data})
	}
	return nil
}

// Run reads and dispatches messages until the stream ends, ctx is done or
// the endpoint is closed. Handlers run on the calling goroutine in arrival
// order. Cancelling ctx closes the endpoint.
func (e *Endpoint) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = e.Close()
		case <-e.done:
		case <-stop:
		}
	}()

	for {
		line, err := e.reader.ReadBytes('\n')
		if len(line) > 0 && (err == nil || errors.Is(err, io.EOF)) {
			e.dispatch(ctx, line)
		}
		if err != nil {
			switch {
			case ctx.Err() != nil:
				return ctx.Err()
			case e.closed.Load():
				return ErrClosed
			case errors.Is(err, io.EOF):
				return io.EOF
			default:
				return fmt.Errorf("read: %w", err)
			}
		}
	}
}

func (e *Endpoint) dispatch(ctx context.Context, line []byte) {
	msg, err := decodeEnvelope(line)
	if err != nil {
		e.report(err)
		return
	}

	if e.observer != nil {
		e.observer(Inbound, msg)
	}

	e.mu.RLock()
	handler, ok := e.handlers[msg.Channel]
	e.mu.RUnlock()
	if !ok {
		e.log.Debugw("dropping message", "channel", msg.Channel, "seq", msg.Seq, "error", ErrUnknownChannel)
		return
	}

	if err := handler(ctx, msg); err != nil {
		e.report(fmt.Errorf("handle %s: %w", msg.Channel, err))
	}
}

func (e *Endpoint) report(err error) {
	e.log.Warnw("bridge error", "error", err)
	if e.onError != nil {
		e.onError(err)
	}
}

// Done is closed when the endpoint is closed.
func (e *Endpoint) Done() <-chan struct{} {
	return e.done
}

// Close closes the endpoint and the underlying stream. Safe to call more
// than once.
func (e *Endpoint) Close() error {
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		close(e.done)
		if e.closer != nil {
			e.closeErr = e.closer.Close()
		}
	})
	return e.closeErr
}

// IsClosed reports whether Close has been called.
func (e *Endpoint) IsClosed() bool {
	return e.closed.Load()
}

func encodeEnvelope(channel Channel, seq uint64, payload []byte) ([]byte, error) {
	line, err := sjson.SetBytes([]byte(`{}`), "channel", string(channel))
	if err == nil {
		line, err = sjson.SetBytes(line, "seq", seq)
	}
	if err == nil {
		line, err = sjson.SetRawBytes(line, "payload", payload)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", channel, err)
	}
	return append(line, '\n'), nil
}

func decodeEnvelope(line []byte) (Message, error) {
	line = trimLine(line)
	if len(line) == 0 {
		return Message{}, &DecodeError{Err: errors.New("empty line")}
	}
	if !gjson.ValidBytes(line) {
		return Message{}, &DecodeError{Line: truncate(string(line), 80), Err: errors.New("invalid json")}
	}

	fields := gjson.GetManyBytes(line, "channel", "seq", "payload")
	channel, seq, payload := fields[0], fields[1], fields[2]
	if channel.Type != gjson.String || channel.Str == "" {
		return Message{}, &DecodeError{Line: truncate(string(line), 80), Err: errors.New("missing channel")}
	}
	if seq.Exists() && seq.Type != gjson.Number {
		return Message{}, &DecodeError{Line: truncate(string(line), 80), Err: errors.New("seq is not a number")}
	}

	msg := Message{Channel: Channel(channel.Str), Seq: seq.Uint()}
	if payload.Exists() {
		msg.Payload = json.RawMessage(payload.Raw)
	}
	return msg, nil
}

func trimLine(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
