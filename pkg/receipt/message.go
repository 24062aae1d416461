package receipt

import (
	proto "github.com/golang/protobuf/proto"
)

// Receipt is published when a receiving session ends.
// The wire format is defined in receipt.proto.
type Receipt struct {
	ReceiverId     string `protobuf:"bytes,1,opt,name=receiver_id,json=receiverId,proto3" json:"receiver_id,omitempty"`
	Target         string `protobuf:"bytes,2,opt,name=target,proto3" json:"target,omitempty"`
	Message        []byte `protobuf:"bytes,3,opt,name=message,proto3" json:"message,omitempty"`
	Complete       bool   `protobuf:"varint,4,opt,name=complete,proto3" json:"complete,omitempty"`
	Blocks         uint32 `protobuf:"varint,5,opt,name=blocks,proto3" json:"blocks,omitempty"`
	FramingErrors  uint32 `protobuf:"varint,6,opt,name=framing_errors,json=framingErrors,proto3" json:"framing_errors,omitempty"`
	ChecksumErrors uint32 `protobuf:"varint,7,opt,name=checksum_errors,json=checksumErrors,proto3" json:"checksum_errors,omitempty"`
	Duplicates     uint32 `protobuf:"varint,8,opt,name=duplicates,proto3" json:"duplicates,omitempty"`
	OutOfOrder     uint32 `protobuf:"varint,9,opt,name=out_of_order,json=outOfOrder,proto3" json:"out_of_order,omitempty"`
	Noise          uint32 `protobuf:"varint,10,opt,name=noise,proto3" json:"noise,omitempty"`
	Error          string `protobuf:"bytes,11,opt,name=error,proto3" json:"error,omitempty"`
	FinishedAt     int64  `protobuf:"varint,12,opt,name=finished_at,json=finishedAt,proto3" json:"finished_at,omitempty"`
}

func (m *Receipt) Reset()         { *m = Receipt{} }
func (m *Receipt) String() string { return proto.CompactTextString(m) }
func (*Receipt) ProtoMessage()    {}

func init() {
	proto.RegisterType((*Receipt)(nil), "xmodem.receipt.v1.Receipt")
}
