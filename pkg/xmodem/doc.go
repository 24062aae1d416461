// Package xmodem implements a simplified XMODEM style block protocol.
package xmodem

// A sender transfers a short message as fixed 9-byte blocks over a
// point-to-point channel (e.g. serial port):
//
//	| SOH | n | 255-n | data (5) | checksum |
//
// The checksum is the sum of the 5 data bytes modulo 256. Unused data
// bytes of the last block are filled with ETX which is dropped on receipt,
// so a message can never carry ETX itself.
//
// The receiver signals readiness with NAK, then acknowledges every block
// with ACK (accepted) or NAK (rejected, sender retransmits the same block).
// EOT ends the transfer and is answered with ACK. There is at most one
// outstanding block at any time. Block numbers are not checked against a
// running counter unless the receiver runs in strict mode.
//
// Producer: Sender (or any external XMODEM-style sender)
// Consumer: Receiver
