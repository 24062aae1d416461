package xmodem

import (
	"context"
	"fmt"
	"io"

	"github.com/golang/glog"

	fx "github.com/robotalks/xmodem.go/pkg/framework"
	"github.com/robotalks/xmodem.go/pkg/transport"
)

// DefaultMaxRetries is the number of retransmissions of a rejected block.
const DefaultMaxRetries = 10

// Sender transfers a message to a Receiver.
type Sender struct {
	Transport  transport.Transport
	MaxRetries int
	// StartSeq is the number of the first block.
	StartSeq byte
}

// NewSender creates a Sender numbering blocks from 1.
func NewSender(t transport.Transport) *Sender {
	return &Sender{Transport: t, MaxRetries: DefaultMaxRetries, StartSeq: 1}
}

// Send waits for the receiver to become ready, transfers msg and ends
// the session with EOT. msg must not contain ETX.
func (s *Sender) Send(ctx context.Context, msg []byte) error {
	blocks, err := Split(msg, s.StartSeq)
	if err != nil {
		return err
	}
	closer, ok := s.Transport.(io.Closer)
	if !ok || ctx.Done() == nil {
		return s.run(blocks)
	}
	err = fx.RunWithContextCancel(ctx, func() {
		closer.Close()
	}, func() error {
		return s.run(blocks)
	})
	if err != nil && err == ctx.Err() {
		err = &IOError{Op: "read", Err: err}
	}
	return err
}

func (s *Sender) run(blocks []Block) error {
	if err := s.awaitReady(); err != nil {
		return err
	}
	for i := range blocks {
		blk := &blocks[i]
		if err := s.transmit(blk[:]); err != nil {
			return fmt.Errorf("block %d: %w", blk.Seq(), err)
		}
		glog.V(2).Infof("block %d acknowledged", blk.Seq())
	}
	if err := s.transmit([]byte{EOT}); err != nil {
		return fmt.Errorf("EOT: %w", err)
	}
	glog.V(1).Infof("sent %d blocks", len(blocks))
	return nil
}

// awaitReady waits for the NAK the receiver sends when it starts.
func (s *Sender) awaitReady() error {
	for {
		b, err := s.Transport.ReadByte()
		if err != nil {
			return &IOError{Op: "read", Err: err}
		}
		if b == NAK {
			return nil
		}
	}
}

func (s *Sender) transmit(p []byte) error {
	for try := 0; try <= s.MaxRetries; try++ {
		for _, c := range p {
			if err := s.Transport.WriteByte(c); err != nil {
				return &IOError{Op: "write", Err: err}
			}
		}
		reply, err := s.awaitReply()
		if err != nil {
			return err
		}
		if reply == ACK {
			return nil
		}
		glog.V(1).Infof("NAK received, retransmitting (%d/%d)", try+1, s.MaxRetries)
	}
	return ErrNAKed
}

func (s *Sender) awaitReply() (byte, error) {
	for {
		b, err := s.Transport.ReadByte()
		if err != nil {
			return 0, &IOError{Op: "read", Err: err}
		}
		if b == ACK || b == NAK {
			return b, nil
		}
	}
}
