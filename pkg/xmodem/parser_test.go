package xmodem

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type parserTestSequence struct {
	in    []byte
	final ParseResult
}

type parserTestSequenceBuilder struct {
	strict bool
	seq    []parserTestSequence
}

func parserTestSequences() *parserTestSequenceBuilder {
	return &parserTestSequenceBuilder{}
}

func (b *parserTestSequenceBuilder) withStrict() *parserTestSequenceBuilder {
	b.strict = true
	return b
}

func (b *parserTestSequenceBuilder) on(in ...byte) *parserTestSequenceBuilder {
	b.seq = append(b.seq, parserTestSequence{in: in})
	return b
}

func (b *parserTestSequenceBuilder) onBlock(seq byte, data string) *parserTestSequenceBuilder {
	blk, err := NewBlock(seq, []byte(data))
	if err != nil {
		panic(err)
	}
	return b.on(blk.Bytes()...)
}

func (b *parserTestSequenceBuilder) final(pr ParseResult) *parserTestSequenceBuilder {
	b.seq[len(b.seq)-1].final = pr
	return b
}

func (b *parserTestSequenceBuilder) accepted(seq byte, payload string) *parserTestSequenceBuilder {
	return b.final(ParseResult{Reply: ACK, State: StateAwaitingControl,
		Event: Event{Kind: EventAccepted, Seq: seq, Payload: []byte(payload)}})
}

func (b *parserTestSequenceBuilder) rejected(kind EventKind, seq byte, err error) *parserTestSequenceBuilder {
	return b.final(ParseResult{Reply: NAK, State: StateAwaitingControl,
		Event: Event{Kind: kind, Seq: seq, Err: err}})
}

func (b *parserTestSequenceBuilder) duplicate(seq byte) *parserTestSequenceBuilder {
	return b.final(ParseResult{Reply: ACK, State: StateAwaitingControl,
		Event: Event{Kind: EventDuplicate, Seq: seq}})
}

func (b *parserTestSequenceBuilder) noise(c byte) *parserTestSequenceBuilder {
	return b.final(ParseResult{State: StateAwaitingControl, Event: Event{Kind: EventNoise, Byte: c}})
}

func (b *parserTestSequenceBuilder) done() *parserTestSequenceBuilder {
	return b.final(ParseResult{Reply: ACK, State: StateDone, Event: Event{Kind: EventEOT}})
}

func (b *parserTestSequenceBuilder) run(t *testing.T) {
	p := &Parser{Strict: b.strict}
	p.Reset()
	require.Equal(t, StateAwaitingControl, p.State())
	for n, s := range b.seq {
		for i, c := range s.in {
			pr := p.Parse(c)
			if i+1 < len(s.in) {
				require.Zerof(t, pr.Reply, "seq[%d].in[%d] unexpected reply", n, i)
				require.Equalf(t, StateReadingBlockBody, pr.State, "seq[%d].in[%d] state mismatch", n, i)
				continue
			}
			require.Equal(t, s.final, pr, fmt.Sprintf("seq[%d] mismatch", n))
		}
	}
}

func TestParser(t *testing.T) {
	testCases := []struct {
		name string
		seq  *parserTestSequenceBuilder
	}{
		{
			"reference block",
			parserTestSequences().
				on(0x01, 0x05, 0xfa, 0x48, 0x49, 0x03, 0x03, 0x03, 0x9a).accepted(5, "HI").
				on(EOT).done(),
		},
		{
			"noise between blocks",
			parserTestSequences().
				on(0x00).noise(0x00).
				onBlock(1, "HELLO").accepted(1, "HELLO").
				on(ACK).noise(ACK).
				on(NAK).noise(NAK).
				on(0xff).noise(0xff).
				onBlock(2, "!").accepted(2, "!").
				on(EOT).done(),
		},
		{
			"complement mismatch",
			parserTestSequences().
				on(SOH, 3, 0x00, 'A', ETX, ETX, ETX, ETX, 'A'+12).rejected(EventFramingError, 3, ErrFraming).
				onBlock(3, "A").accepted(3, "A"),
		},
		{
			"checksum mismatch",
			parserTestSequences().
				on(SOH, 3, 0xfc, 'A', ETX, ETX, ETX, ETX, 0).rejected(EventChecksumError, 3, ErrChecksum).
				onBlock(3, "A").accepted(3, "A"),
		},
		{
			"control bytes inside a block are data",
			parserTestSequences().
				on(SOH, 4, 0xfb, EOT, SOH, 'x', ETX, ETX, EOT+SOH+'x'+6).accepted(4, string([]byte{EOT, SOH, 'x'})),
		},
		{
			"permissive duplicates",
			parserTestSequences().
				onBlock(1, "AB").accepted(1, "AB").
				onBlock(1, "AB").accepted(1, "AB").
				onBlock(9, "C").accepted(9, "C"),
		},
		{
			"strict sequence",
			parserTestSequences().withStrict().
				onBlock(7, "AB").accepted(7, "AB").
				onBlock(7, "AB").duplicate(7).
				onBlock(9, "C").rejected(EventOutOfOrder, 9, ErrSequence).
				onBlock(8, "C").accepted(8, "C").
				on(EOT).done(),
		},
		{
			"strict wraps",
			parserTestSequences().withStrict().
				onBlock(255, "A").accepted(255, "A").
				onBlock(0, "B").accepted(0, "B"),
		},
		{
			"input after done",
			parserTestSequences().
				on(EOT).done().
				on(SOH).final(ParseResult{State: StateDone}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.seq.run(t)
		})
	}
}

func TestEventKindString(t *testing.T) {
	require.Equal(t, "accepted", EventAccepted.String())
	require.Equal(t, "checksum-error", EventChecksumError.String())
	require.Equal(t, "unknown", EventKind(99).String())
}
