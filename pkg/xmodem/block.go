package xmodem

import (
	"fmt"
	"io"
)

// Control bytes.
const (
	SOH byte = 0x01
	ETX byte = 0x03
	EOT byte = 0x04
	ACK byte = 0x06
	NAK byte = 0x15
)

// Block layout.
const (
	DataSize  = 5
	BlockSize = 3 + DataSize + 1

	posSeq        = 1
	posComplement = 2
	posData       = 3
	posChecksum   = posData + DataSize
)

// Block is a complete frame including the leading SOH.
type Block [BlockSize]byte

// Checksum sums data modulo 256.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}

// NewBlock builds a valid block numbered seq. data is padded with ETX.
func NewBlock(seq byte, data []byte) (b Block, err error) {
	if len(data) > DataSize {
		return b, fmt.Errorf("block data too long: %d bytes (max %d)", len(data), DataSize)
	}
	b[0], b[posSeq], b[posComplement] = SOH, seq, 255-seq
	n := copy(b[posData:posChecksum], data)
	for i := posData + n; i < posChecksum; i++ {
		b[i] = ETX
	}
	b[posChecksum] = Checksum(b[posData:posChecksum])
	return b, nil
}

// Seq returns the declared block number.
func (b *Block) Seq() byte {
	return b[posSeq]
}

// Complement returns the complement byte.
func (b *Block) Complement() byte {
	return b[posComplement]
}

// Data returns the raw data bytes including padding.
func (b *Block) Data() []byte {
	return b[posData:posChecksum]
}

// Sum returns the checksum carried by the block.
func (b *Block) Sum() byte {
	return b[posChecksum]
}

// Validate checks the complement first, then the checksum.
func (b *Block) Validate() error {
	if b.Complement() != 255-b.Seq() {
		return ErrFraming
	}
	if b.Sum() != Checksum(b.Data()) {
		return ErrChecksum
	}
	return nil
}

// Payload returns the data bytes with padding removed.
func (b *Block) Payload() []byte {
	payload := make([]byte, 0, DataSize)
	for _, c := range b.Data() {
		if c != ETX {
			payload = append(payload, c)
		}
	}
	return payload
}

// Bytes returns encoded bytes for sending.
func (b *Block) Bytes() []byte {
	p := make([]byte, BlockSize)
	copy(p, b[:])
	return p
}

// WriteTo implements io.WriterTo.
func (b *Block) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b[:])
	return int64(n), err
}

// Split frames msg into blocks numbered from startSeq, wrapping after 255.
// An empty message produces no blocks.
func Split(msg []byte, startSeq byte) ([]Block, error) {
	for _, c := range msg {
		if c == ETX {
			return nil, ErrPadding
		}
	}
	blocks := make([]Block, 0, (len(msg)+DataSize-1)/DataSize)
	seq := startSeq
	for len(msg) > 0 {
		n := DataSize
		if len(msg) < n {
			n = len(msg)
		}
		b, err := NewBlock(seq, msg[:n])
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
		msg, seq = msg[n:], seq+1
	}
	return blocks, nil
}
