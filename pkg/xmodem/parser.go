package xmodem

// State is the state of a receiving session.
type State int

const (
	// StateAwaitingControl waits for SOH or EOT, other bytes are noise.
	StateAwaitingControl State = iota
	// StateReadingBlockBody collects the 8 bytes following SOH.
	StateReadingBlockBody
	// StateDone means EOT was received and the message is final.
	StateDone
)

// EventKind classifies what happened on a parsed byte.
type EventKind int

// Event kinds.
const (
	EventNone EventKind = iota
	EventAccepted
	EventFramingError
	EventChecksumError
	EventDuplicate
	EventOutOfOrder
	EventNoise
	EventEOT
)

var eventKindNames = [...]string{
	EventNone:          "none",
	EventAccepted:      "accepted",
	EventFramingError:  "framing-error",
	EventChecksumError: "checksum-error",
	EventDuplicate:     "duplicate",
	EventOutOfOrder:    "out-of-order",
	EventNoise:         "noise",
	EventEOT:           "eot",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// Event describes the outcome of a complete block or a control byte.
type Event struct {
	Kind EventKind
	// Seq is the declared block number of block events.
	Seq byte
	// Byte is the discarded byte of EventNoise.
	Byte byte
	// Payload is the data appended to the message on EventAccepted.
	Payload []byte
	// Err is ErrFraming, ErrChecksum or ErrSequence for rejected blocks.
	Err error
}

// ParseResult indicates the result after one parsing step.
type ParseResult struct {
	// Reply is ACK or NAK to send back, 0 if nothing is sent.
	Reply byte
	State State
	Event Event
}

// Parser parses bytes received.
type Parser struct {
	// Strict enables block number checking.
	Strict bool

	state   State
	block   Block
	recvLen int

	anchored bool
	lastSeq  byte
}

// State gets the current state.
func (p *Parser) State() State {
	return p.state
}

// Reset starts a new session.
func (p *Parser) Reset() {
	*p = Parser{Strict: p.Strict}
}

// Parse consumes one byte.
func (p *Parser) Parse(b byte) (pr ParseResult) {
	pr.Reply, pr.Event = p.parseByte(b)
	pr.State = p.state
	return
}

func (p *Parser) parseByte(b byte) (reply byte, ev Event) {
	switch p.state {
	case StateAwaitingControl:
		switch b {
		case EOT:
			p.state = StateDone
			return ACK, Event{Kind: EventEOT}
		case SOH:
			p.block[0], p.recvLen = b, 1
			p.state = StateReadingBlockBody
		default:
			return 0, Event{Kind: EventNoise, Byte: b}
		}
	case StateReadingBlockBody:
		p.block[p.recvLen] = b
		p.recvLen++
		if p.recvLen >= BlockSize {
			p.state = StateAwaitingControl
			return p.blockReady()
		}
	}
	return
}

func (p *Parser) blockReady() (byte, Event) {
	ev := Event{Seq: p.block.Seq()}
	if err := p.block.Validate(); err != nil {
		ev.Err = err
		if err == ErrFraming {
			ev.Kind = EventFramingError
		} else {
			ev.Kind = EventChecksumError
		}
		return NAK, ev
	}
	if p.Strict && p.anchored {
		switch ev.Seq {
		case p.lastSeq + 1:
		case p.lastSeq:
			// ACK of the previous block got lost, sender repeats it.
			ev.Kind = EventDuplicate
			return ACK, ev
		default:
			ev.Kind, ev.Err = EventOutOfOrder, ErrSequence
			return NAK, ev
		}
	}
	p.anchored, p.lastSeq = true, ev.Seq
	ev.Kind, ev.Payload = EventAccepted, p.block.Payload()
	return ACK, ev
}
