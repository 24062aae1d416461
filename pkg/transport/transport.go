package transport

import (
	"bufio"
	"errors"
	"io"
	"sync"
	"time"
)

// Transport is a blocking byte channel.
type Transport interface {
	// ReadByte blocks until a byte arrives or the channel fails.
	io.ByteReader
	// WriteByte sends a single byte.
	io.ByteWriter
	// Buffered returns the number of bytes received but not yet read.
	// It never blocks.
	Buffered() int
}

// Conn is a Transport which owns a closable channel.
type Conn interface {
	Transport
	io.Closer
}

// ErrTimeout indicates a read timed out on a channel configured with a
// read timeout.
var ErrTimeout = errors.New("read timeout")

// ErrClosed indicates the stream has been closed.
var ErrClosed = errors.New("transport closed")

// DefaultWriteTimeout bounds a single write on channels supporting deadlines.
const DefaultWriteTimeout = 100 * time.Millisecond

type writeDeadliner interface {
	SetWriteDeadline(time.Time) error
}

// Stream implements Conn on top of an io.ReadWriteCloser.
// Reads are buffered, writes go straight to the channel.
type Stream struct {
	// WriteTimeout is applied to each write if the channel supports
	// write deadlines. Zero means no deadline.
	WriteTimeout time.Duration

	rwc    io.ReadWriteCloser
	reader *bufio.Reader

	lock     sync.Mutex
	closed   bool
	closeErr error
}

// NewStream wraps rwc. The Stream takes ownership of rwc.
func NewStream(rwc io.ReadWriteCloser) *Stream {
	return &Stream{
		rwc:    rwc,
		reader: bufio.NewReader(rwc),
	}
}

// ReadByte implements io.ByteReader.
func (s *Stream) ReadByte() (byte, error) {
	b, err := s.reader.ReadByte()
	if err != nil && s.isClosed() {
		return 0, ErrClosed
	}
	return b, err
}

// WriteByte implements io.ByteWriter.
func (s *Stream) WriteByte(c byte) error {
	_, err := s.Write([]byte{c})
	return err
}

// Write implements io.Writer.
func (s *Stream) Write(p []byte) (int, error) {
	if s.isClosed() {
		return 0, ErrClosed
	}
	if s.WriteTimeout > 0 {
		if d, ok := s.rwc.(writeDeadliner); ok {
			if err := d.SetWriteDeadline(time.Now().Add(s.WriteTimeout)); err != nil {
				return 0, err
			}
		}
	}
	n, err := s.rwc.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	return n, err
}

// Buffered implements Transport.
func (s *Stream) Buffered() int {
	return s.reader.Buffered()
}

// Close releases the underlying channel. Calling Close more than once
// returns the result of the first call.
func (s *Stream) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.closed {
		s.closed = true
		s.closeErr = s.rwc.Close()
	}
	return s.closeErr
}

func (s *Stream) isClosed() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.closed
}

// Drain reads whatever is already buffered in t without blocking.
func Drain(t Transport) ([]byte, error) {
	n := t.Buffered()
	if n == 0 {
		return nil, nil
	}
	data := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		b, err := t.ReadByte()
		if err != nil {
			return data, err
		}
		data = append(data, b)
	}
	return data, nil
}

// timeoutReader turns the (0, nil) result of a timed out serial read
// into ErrTimeout so buffered readers don't spin on it.
type timeoutReader struct {
	io.ReadWriteCloser
}

func (r timeoutReader) Read(p []byte) (int, error) {
	n, err := r.ReadWriteCloser.Read(p)
	if n == 0 && err == nil && len(p) > 0 {
		return 0, ErrTimeout
	}
	return n, err
}
