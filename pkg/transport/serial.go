package transport

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go.bug.st/serial"
)

// SerialConfig holds the device configuration of a serial port.
type SerialConfig struct {
	// Device is the port name, e.g. "/dev/ttyUSB0" or "COM3".
	Device   string `toml:"device"`
	Baud     int    `toml:"baud"`
	DataBits int    `toml:"data_bits"`
	// Parity is one of none, odd, even, mark, space.
	Parity string `toml:"parity"`
	// StopBits is one of 1, 1.5, 2.
	StopBits string `toml:"stop_bits"`
	// ReadTimeout bounds each read. Zero blocks until data arrives.
	ReadTimeout time.Duration `toml:"read_timeout"`
}

// DefaultSerialConfig returns 9600 8N1, blocking reads.
func DefaultSerialConfig(device string) SerialConfig {
	return SerialConfig{
		Device:   device,
		Baud:     9600,
		DataBits: 8,
		Parity:   "none",
		StopBits: "1",
	}
}

// Mode converts the config into go.bug.st/serial mode.
func (c *SerialConfig) Mode() (*serial.Mode, error) {
	mode := &serial.Mode{BaudRate: c.Baud, DataBits: c.DataBits}
	if mode.BaudRate <= 0 {
		return nil, fmt.Errorf("invalid baud rate %d", c.Baud)
	}
	if mode.DataBits == 0 {
		mode.DataBits = 8
	}
	if mode.DataBits < 5 || mode.DataBits > 8 {
		return nil, fmt.Errorf("invalid data bits %d", c.DataBits)
	}
	switch strings.ToLower(c.Parity) {
	case "", "none", "n":
		mode.Parity = serial.NoParity
	case "odd", "o":
		mode.Parity = serial.OddParity
	case "even", "e":
		mode.Parity = serial.EvenParity
	case "mark", "m":
		mode.Parity = serial.MarkParity
	case "space", "s":
		mode.Parity = serial.SpaceParity
	default:
		return nil, fmt.Errorf("invalid parity %q", c.Parity)
	}
	switch c.StopBits {
	case "", "1":
		mode.StopBits = serial.OneStopBit
	case "1.5":
		mode.StopBits = serial.OnePointFiveStopBits
	case "2":
		mode.StopBits = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("invalid stop bits %q", c.StopBits)
	}
	return mode, nil
}

// ModemStatus is the state of the modem input lines.
type ModemStatus struct {
	CTS bool
	DSR bool
	RI  bool
	DCD bool
}

// ModemLines is implemented by transports with handshake lines.
type ModemLines interface {
	SetRTS(bool) error
	SetDTR(bool) error
	ModemStatus() (ModemStatus, error)
}

// Port is an open serial port.
type Port struct {
	*Stream

	port   serial.Port
	device string
}

// OpenSerial opens and configures a serial port.
func OpenSerial(cfg *SerialConfig) (*Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}
	port, err := serial.Open(cfg.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}
	var rwc io.ReadWriteCloser = port
	if cfg.ReadTimeout > 0 {
		if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
			port.Close()
			return nil, fmt.Errorf("failed to set read timeout on %s: %w", cfg.Device, err)
		}
		rwc = timeoutReader{port}
	}
	return &Port{
		Stream: NewStream(rwc),
		port:   port,
		device: cfg.Device,
	}, nil
}

// Device returns the port name.
func (p *Port) Device() string {
	return p.device
}

// SetRTS implements ModemLines.
func (p *Port) SetRTS(on bool) error {
	return p.port.SetRTS(on)
}

// SetDTR implements ModemLines.
func (p *Port) SetDTR(on bool) error {
	return p.port.SetDTR(on)
}

// ModemStatus implements ModemLines.
func (p *Port) ModemStatus() (ModemStatus, error) {
	bits, err := p.port.GetModemStatusBits()
	if err != nil {
		return ModemStatus{}, err
	}
	return ModemStatus{CTS: bits.CTS, DSR: bits.DSR, RI: bits.RI, DCD: bits.DCD}, nil
}

// ListPorts enumerates serial ports on the system.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}
