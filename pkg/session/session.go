// Package session runs a configured receiving session end to end.
package session

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/xmodem.go/pkg/env"
	"github.com/robotalks/xmodem.go/pkg/receipt"
	"github.com/robotalks/xmodem.go/pkg/transport"
	"github.com/robotalks/xmodem.go/pkg/xmodem"
)

// ReceiptPublisher publishes the receipt of a finished session.
type ReceiptPublisher interface {
	PublishReceipt(*receipt.Receipt) error
}

// Session receives one message on an open transport.
type Session struct {
	Config    *env.Config
	Conn      transport.Conn
	Handler   xmodem.EventHandler
	Publisher ReceiptPublisher

	// Receipt is set after Run.
	Receipt *receipt.Receipt
}

// New creates a Session.
func New(conf *env.Config, conn transport.Conn) *Session {
	return &Session{Config: conf, Conn: conn}
}

// Run receives the message. Config.Timeout bounds the session, when
// it expires the transport is closed and an IOError is returned.
func (s *Session) Run(ctx context.Context) (*xmodem.Result, error) {
	if s.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Config.Timeout)
		defer cancel()
	}
	r := xmodem.NewReceiver(s.Conn)
	r.Strict = s.Config.Strict
	r.Handler = s.Handler
	glog.Infof("receiving on %s", s.Config.Target)
	res, err := r.Receive(ctx)

	s.Receipt = receipt.FromResult(res, err, s.Config.ID(), s.Config.Target, time.Now())
	if p := s.Publisher; p != nil {
		if perr := p.PublishReceipt(s.Receipt); perr != nil {
			glog.Warningf("publish receipt failed: %v", perr)
		}
	}
	return res, err
}
