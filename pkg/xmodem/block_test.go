package xmodem

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	require.Equal(t, byte(0), Checksum(nil))
	require.Equal(t, byte(0x9a), Checksum([]byte{'H', 'I', ETX, ETX, ETX}))
	require.Equal(t, byte(0xfb), Checksum([]byte{0xff, 0xff, 0xff, 0xff, 0xff}))
}

func TestNewBlock(t *testing.T) {
	testCases := []struct {
		name   string
		seq    byte
		data   []byte
		expect []byte
	}{
		{"padded", 5, []byte("HI"), []byte{SOH, 5, 0xfa, 'H', 'I', ETX, ETX, ETX, 0x9a}},
		{"full", 1, []byte("HELLO"), []byte{SOH, 1, 0xfe, 'H', 'E', 'L', 'L', 'O', 0x74}},
		{"empty", 0, nil, []byte{SOH, 0, 0xff, ETX, ETX, ETX, ETX, ETX, 0x0f}},
		{"seq 255", 255, []byte{'A'}, []byte{SOH, 255, 0, 'A', ETX, ETX, ETX, ETX, 0x4d}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := NewBlock(tc.seq, tc.data)
			require.NoError(t, err)
			require.Equal(t, tc.expect, b.Bytes())
			require.NoError(t, b.Validate())
			require.Equal(t, tc.seq, b.Seq())
			require.Equal(t, 255-tc.seq, b.Complement())
			if len(tc.data) == 0 {
				require.Empty(t, b.Payload())
			} else {
				require.Equal(t, tc.data, b.Payload())
			}
			var buf bytes.Buffer
			n, err := b.WriteTo(&buf)
			require.NoError(t, err)
			require.Equal(t, int64(BlockSize), n)
			require.Equal(t, tc.expect, buf.Bytes())
		})
	}

	_, err := NewBlock(1, []byte("TOOLONG"))
	require.Error(t, err)
}

func TestBlockValidate(t *testing.T) {
	b, err := NewBlock(7, []byte("ABCDE"))
	require.NoError(t, err)

	bad := b
	bad[posComplement]++
	require.Equal(t, ErrFraming, bad.Validate())

	bad = b
	bad[posChecksum]++
	require.Equal(t, ErrChecksum, bad.Validate())

	// complement is checked first
	bad[posComplement]++
	require.Equal(t, ErrFraming, bad.Validate())
}

func TestBlockPayloadDropsPadding(t *testing.T) {
	var b Block
	copy(b[:], []byte{SOH, 1, 0xfe, 'A', ETX, 'B', ETX, 'C', 0})
	b[posChecksum] = Checksum(b.Data())
	require.NoError(t, b.Validate())
	require.Equal(t, []byte("ABC"), b.Payload())
}

func TestSplit(t *testing.T) {
	blocks, err := Split([]byte("HELLO WORLD"), 1)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	require.Equal(t, []byte("HELLO"), blocks[0].Payload())
	require.Equal(t, []byte(" WORL"), blocks[1].Payload())
	require.Equal(t, []byte("D"), blocks[2].Payload())
	for n, b := range blocks {
		require.Equal(t, byte(n+1), b.Seq())
		require.NoError(t, b.Validate())
	}

	blocks, err = Split([]byte("0123456789"), 255)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	require.Equal(t, byte(255), blocks[0].Seq())
	require.Equal(t, byte(0), blocks[1].Seq())

	blocks, err = Split(nil, 1)
	require.NoError(t, err)
	require.Empty(t, blocks)

	_, err = Split([]byte{'A', ETX, 'B'}, 1)
	require.Equal(t, ErrPadding, err)
}
