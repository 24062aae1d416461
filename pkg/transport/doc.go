// Package transport provides the byte channel the receiver runs on.
//
// A Transport is a blocking, point-to-point byte stream with no knowledge
// of the block protocol. Concrete channels are serial devices, TCP
// connections and websocket connections; all of them are wrapped in a
// Stream which owns the underlying channel and releases it on Close.
package transport
