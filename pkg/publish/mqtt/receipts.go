package mqtt

import (
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/xmodem.go/pkg/receipt"
)

const receiptSuffix = "/receipt"

// ReceiptTopic is the topic receipts of a receiver are published to.
func ReceiptTopic(receiverID string) string {
	return receiverID + receiptSuffix
}

// ReceiptHandler is called with decoded receipts.
type ReceiptHandler func(receiverID string, r *receipt.Receipt)

// PublishReceipt publishes r under its receiver id.
func (q *Queue) PublishReceipt(r *receipt.Receipt) error {
	payload, err := r.Encode()
	if err != nil {
		return err
	}
	return q.Pub(ReceiptTopic(r.ReceiverId), payload)
}

// SubscribeReceipts subscribes receipts from all receivers.
func (q *Queue) SubscribeReceipts(h ReceiptHandler) error {
	return q.Sub("+"+receiptSuffix, receiptDecoder(h))
}

func receiptDecoder(h ReceiptHandler) Handler {
	return func(topic string, payload []byte) {
		r, err := receipt.Decode(payload)
		if err != nil {
			glog.Warningf("%s: bad receipt: %v", topic, err)
			return
		}
		h(strings.TrimSuffix(topic, receiptSuffix), r)
	}
}
