package transport

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/websocket"
)

// Dial opens the channel described by target:
//
//	tcp://host:port          raw TCP byte stream
//	ws://host/path           websocket, binary frames
//	wss://host/path          websocket over TLS
//	serial:///dev/ttyUSB0    serial device
//	/dev/ttyUSB0, COM3       serial device
//
// Serial devices are configured from defaults with Device replaced.
func Dial(ctx context.Context, target string, defaults SerialConfig) (Conn, error) {
	if target == "" {
		return nil, fmt.Errorf("empty target")
	}
	if !strings.Contains(target, "://") {
		return dialSerial(target, defaults)
	}
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid target %q: %w", target, err)
	}
	switch u.Scheme {
	case "tcp":
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", u.Host)
		if err != nil {
			return nil, err
		}
		s := NewStream(conn)
		s.WriteTimeout = DefaultWriteTimeout
		return s, nil
	case "ws", "wss":
		return dialWebsocket(u)
	case "serial":
		device := u.Path
		if u.Host != "" {
			// serial://COM3
			device = u.Host + u.Path
		}
		return dialSerial(device, defaults)
	default:
		return nil, fmt.Errorf("unknown target scheme: %q", u.Scheme)
	}
}

func dialSerial(device string, defaults SerialConfig) (Conn, error) {
	cfg := defaults
	cfg.Device = device
	return OpenSerial(&cfg)
}

func dialWebsocket(u *url.URL) (Conn, error) {
	origin := "http://localhost/"
	if u.Scheme == "wss" {
		origin = "https://localhost/"
	}
	config, err := websocket.NewConfig(u.String(), origin)
	if err != nil {
		return nil, err
	}
	conn, err := websocket.DialConfig(config)
	if err != nil {
		return nil, err
	}
	conn.PayloadType = websocket.BinaryFrame
	s := NewStream(conn)
	s.WriteTimeout = DefaultWriteTimeout
	return s, nil
}
