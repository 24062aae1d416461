package transport

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type nopCloser struct {
	io.ReadWriter
	closed int
}

func (c *nopCloser) Close() error {
	c.closed++
	return nil
}

func TestStreamReadWrite(t *testing.T) {
	var out bytes.Buffer
	rw := &nopCloser{ReadWriter: struct {
		io.Reader
		io.Writer
	}{bytes.NewReader([]byte{0x01, 0x00, 0xff}), &out}}
	s := NewStream(rw)

	b, err := s.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0x01), b)
	require.Equal(t, 2, s.Buffered())

	b, err = s.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0x00), b)
	b, err = s.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0xff), b)

	_, err = s.ReadByte()
	require.Equal(t, io.EOF, err)

	require.NoError(t, s.WriteByte(0x06))
	require.NoError(t, s.WriteByte(0x15))
	require.Equal(t, []byte{0x06, 0x15}, out.Bytes())
}

func TestStreamClose(t *testing.T) {
	rw := &nopCloser{ReadWriter: &bytes.Buffer{}}
	s := NewStream(rw)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	require.Equal(t, 1, rw.closed)

	require.Equal(t, ErrClosed, s.WriteByte(0x06))
	_, err := s.ReadByte()
	require.Equal(t, ErrClosed, err)
}

func TestStreamCloseUnblocksRead(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()
	s := NewStream(a)

	errCh := make(chan error, 1)
	go func() {
		_, err := s.ReadByte()
		errCh <- err
	}()
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.Close())

	select {
	case err := <-errCh:
		require.Equal(t, ErrClosed, err)
	case <-time.After(time.Second):
		t.Fatal("read not unblocked by close")
	}
}

func TestStreamWriteTimeout(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()
	s := NewStream(a)
	defer s.Close()
	s.WriteTimeout = 20 * time.Millisecond

	// nobody reads from b
	err := s.WriteByte(0x15)
	require.Error(t, err)
	netErr, ok := err.(net.Error)
	require.True(t, ok)
	require.True(t, netErr.Timeout())
}

func TestDrain(t *testing.T) {
	rw := &nopCloser{ReadWriter: bytes.NewBuffer([]byte("noise"))}
	s := NewStream(rw)

	data, err := Drain(s)
	require.NoError(t, err)
	require.Empty(t, data)

	b, err := s.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte('n'), b)

	data, err = Drain(s)
	require.NoError(t, err)
	require.Equal(t, []byte("oise"), data)
	require.Zero(t, s.Buffered())
}

type zeroReader struct {
	io.ReadWriteCloser
	reads int
}

func (r *zeroReader) Read(p []byte) (int, error) {
	r.reads++
	if r.reads > 1 {
		p[0] = 0x04
		return 1, nil
	}
	return 0, nil
}

func TestTimeoutReader(t *testing.T) {
	s := NewStream(timeoutReader{&zeroReader{}})
	_, err := s.ReadByte()
	require.Equal(t, ErrTimeout, err)
	b, err := s.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0x04), b)
}
