// Package receipt records the outcome of a receiving session.
package receipt

import (
	"time"

	"github.com/golang/protobuf/proto"

	"github.com/robotalks/xmodem.go/pkg/xmodem"
)

// FromResult creates a Receipt from the outcome of Receiver.Receive.
func FromResult(res *xmodem.Result, err error, receiverID, target string, at time.Time) *Receipt {
	r := &Receipt{
		ReceiverId: receiverID,
		Target:     target,
		FinishedAt: at.UnixNano(),
	}
	if res != nil {
		r.Message = res.Message
		r.Complete = res.Complete
		r.Blocks = uint32(res.Stats.Blocks)
		r.FramingErrors = uint32(res.Stats.FramingErrors)
		r.ChecksumErrors = uint32(res.Stats.ChecksumErrors)
		r.Duplicates = uint32(res.Stats.Duplicates)
		r.OutOfOrder = uint32(res.Stats.OutOfOrder)
		r.Noise = uint32(res.Stats.Noise)
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// Time returns FinishedAt as time.Time.
func (m *Receipt) Time() time.Time {
	return time.Unix(0, m.FinishedAt)
}

// Encode encodes the receipt.
func (m *Receipt) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// Decode decodes a receipt.
func Decode(data []byte) (*Receipt, error) {
	var r Receipt
	if err := proto.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
