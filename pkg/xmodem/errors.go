package xmodem

import (
	"errors"
	"fmt"
)

var (
	// ErrFraming indicates the complement byte doesn't match the block number.
	ErrFraming = errors.New("block number complement mismatch")
	// ErrChecksum indicates the checksum byte doesn't match the data.
	ErrChecksum = errors.New("checksum mismatch")
	// ErrSequence indicates an unexpected block number in strict mode.
	ErrSequence = errors.New("unexpected block number")
	// ErrPadding indicates a message contains the padding marker and
	// can't be transferred.
	ErrPadding = errors.New("message contains padding marker")
	// ErrNAKed indicates the peer rejected a block or EOT too many times.
	ErrNAKed = errors.New("rejected by receiver")
)

// IOError is the terminal failure of a session caused by the transport.
type IOError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *IOError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *IOError) Unwrap() error {
	return e.Err
}
