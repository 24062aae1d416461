package xmodem

import (
	"context"
	"io"

	"github.com/golang/glog"

	fx "github.com/robotalks/xmodem.go/pkg/framework"
	"github.com/robotalks/xmodem.go/pkg/transport"
)

// EventHandler is called for every event of a session.
type EventHandler interface {
	HandleEvent(context.Context, Event)
}

// HandleEventFunc is func type of EventHandler.
type HandleEventFunc func(context.Context, Event)

// HandleEvent implements EventHandler.
func (f HandleEventFunc) HandleEvent(ctx context.Context, ev Event) {
	f(ctx, ev)
}

// Stats counts what happened during a session.
type Stats struct {
	Blocks         int
	FramingErrors  int
	ChecksumErrors int
	Duplicates     int
	OutOfOrder     int
	Noise          int
}

func (s *Stats) count(ev Event) {
	switch ev.Kind {
	case EventAccepted:
		s.Blocks++
	case EventFramingError:
		s.FramingErrors++
	case EventChecksumError:
		s.ChecksumErrors++
	case EventDuplicate:
		s.Duplicates++
	case EventOutOfOrder:
		s.OutOfOrder++
	case EventNoise:
		s.Noise++
	}
}

// Result is the outcome of a session.
type Result struct {
	// Message is the reassembled message. If Complete is false it holds
	// what was accepted before the transport failed.
	Message  []byte
	Complete bool
	Stats    Stats
}

// Receiver receives a single message over a Transport.
type Receiver struct {
	Transport transport.Transport
	Handler   EventHandler
	// Strict enables block number checking, see Parser.
	Strict bool

	parser Parser
}

// NewReceiver creates a Receiver.
func NewReceiver(t transport.Transport) *Receiver {
	return &Receiver{Transport: t}
}

// Receive runs a session until EOT is received or the transport fails.
//
// A transport failure is returned as *IOError together with the partial
// Result. If the Transport is an io.Closer, canceling ctx closes it and
// the returned IOError wraps ctx.Err().
func (r *Receiver) Receive(ctx context.Context) (*Result, error) {
	res := &Result{Message: make([]byte, 0, 64)}
	closer, ok := r.Transport.(io.Closer)
	if !ok || ctx.Done() == nil {
		return res, r.run(ctx, res)
	}
	err := fx.RunWithContextCancel(ctx, func() {
		closer.Close()
	}, func() error {
		return r.run(ctx, res)
	})
	if res.Complete {
		return res, nil
	}
	if err != nil && err == ctx.Err() {
		err = &IOError{Op: "read", Err: err}
	}
	return res, err
}

func (r *Receiver) run(ctx context.Context, res *Result) error {
	r.parser.Strict = r.Strict
	r.parser.Reset()

	glog.V(1).Info("receiver ready")
	if err := r.reply(NAK); err != nil {
		return err
	}
	for {
		b, err := r.Transport.ReadByte()
		if err != nil {
			glog.Warningf("receive aborted after %d bytes: %v", len(res.Message), err)
			return &IOError{Op: "read", Err: err}
		}
		pr := r.parser.Parse(b)
		ev := pr.Event
		if ev.Kind == EventAccepted {
			res.Message = append(res.Message, ev.Payload...)
		}
		res.Stats.count(ev)
		r.trace(ev)
		if pr.Reply != 0 {
			if err := r.reply(pr.Reply); err != nil {
				return err
			}
		}
		if ev.Kind != EventNone {
			if h := r.Handler; h != nil {
				h.HandleEvent(ctx, ev)
			}
		}
		if pr.State == StateDone {
			res.Complete = true
			glog.V(1).Infof("transmission complete: %d bytes in %d blocks", len(res.Message), res.Stats.Blocks)
			return nil
		}
	}
}

func (r *Receiver) reply(b byte) error {
	if err := r.Transport.WriteByte(b); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	return nil
}

func (r *Receiver) trace(ev Event) {
	switch ev.Kind {
	case EventAccepted:
		glog.V(2).Infof("block %d accepted: %d bytes", ev.Seq, len(ev.Payload))
	case EventFramingError, EventChecksumError, EventOutOfOrder:
		glog.V(1).Infof("block %d rejected: %v", ev.Seq, ev.Err)
	case EventDuplicate:
		glog.V(1).Infof("block %d repeated, ignored", ev.Seq)
	case EventNoise:
		glog.V(4).Infof("noise 0x%02x", ev.Byte)
	}
}
