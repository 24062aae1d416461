package xfer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/robotalks/xmodem.go/pkg/xmodem"
)

func TestFormatStats(t *testing.T) {
	st := xmodem.Stats{Blocks: 3, ChecksumErrors: 1, Noise: 2}
	assert.Equal(t, "blocks=3 framing=0 checksum=1 duplicates=0 out-of-order=0 noise=2", FormatStats(st))
}
