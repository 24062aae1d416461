// Package env sets up the configuration shared by the xmodem tools.
package env

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/denisbrodbeck/machineid"

	"github.com/robotalks/xmodem.go/pkg/transport"
)

// AppID scopes the machine id derived receiver id.
const AppID = "xmodem.go"

// Config provides common options of a receiving session.
type Config struct {
	// Target is a device name or URL, see transport.Dial.
	Target string                 `toml:"target"`
	Serial transport.SerialConfig `toml:"serial"`
	// Strict enables block number checking.
	Strict bool `toml:"strict"`
	// Timeout bounds the whole session. Zero waits forever.
	Timeout time.Duration `toml:"timeout"`
	// PublishURL is the MQTT broker receipts are published to,
	// e.g. mqtt://host:port/topic-prefix. Empty disables publishing.
	PublishURL string `toml:"publish_url"`
	// ReceiverID identifies this receiver, defaults to the machine id.
	ReceiverID string `toml:"receiver_id"`
}

var (
	defaultConfig = Config{
		Serial: transport.DefaultSerialConfig(""),
	}

	configFile string
)

func init() {
	if val := os.Getenv("XMODEM_TARGET"); val != "" {
		defaultConfig.Target = val
	}
	if val := os.Getenv("XMODEM_BAUD"); val != "" {
		if baud, err := strconv.Atoi(val); err == nil {
			defaultConfig.Serial.Baud = baud
		}
	}
	if val := os.Getenv("XMODEM_PUBLISH_URL"); val != "" {
		defaultConfig.PublishURL = val
	}
	if val := os.Getenv("XMODEM_RECEIVER_ID"); val != "" {
		defaultConfig.ReceiverID = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&configFile, "config", configFile, "TOML config file.")
	flag.StringVar(&defaultConfig.Target, "target", defaultConfig.Target, "Serial device or URL (tcp://, ws://, serial://).")
	flag.IntVar(&defaultConfig.Serial.Baud, "baud", defaultConfig.Serial.Baud, "Baud rate.")
	flag.IntVar(&defaultConfig.Serial.DataBits, "data-bits", defaultConfig.Serial.DataBits, "Data bits (5-8).")
	flag.StringVar(&defaultConfig.Serial.Parity, "parity", defaultConfig.Serial.Parity, "Parity: none, odd, even, mark, space.")
	flag.StringVar(&defaultConfig.Serial.StopBits, "stop-bits", defaultConfig.Serial.StopBits, "Stop bits: 1, 1.5, 2.")
	flag.DurationVar(&defaultConfig.Serial.ReadTimeout, "read-timeout", defaultConfig.Serial.ReadTimeout, "Per read timeout, 0 blocks.")
	flag.BoolVar(&defaultConfig.Strict, "strict", defaultConfig.Strict, "Check block numbers.")
	flag.DurationVar(&defaultConfig.Timeout, "timeout", defaultConfig.Timeout, "Session timeout, 0 waits forever.")
	flag.StringVar(&defaultConfig.PublishURL, "publish", defaultConfig.PublishURL, "MQTT broker URL to publish receipts.")
	flag.StringVar(&defaultConfig.ReceiverID, "receiver-id", defaultConfig.ReceiverID, "Receiver ID, defaults to machine ID.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Parse parses command line flags and loads the config file if specified.
// Explicitly set flags take precedence over the file.
func Parse() (*Config, error) {
	conf, err := load()
	if err != nil {
		return nil, err
	}
	return conf, conf.Validate()
}

// ParseOptionalTarget is Parse for tools which can open a target later.
func ParseOptionalTarget() (*Config, error) {
	conf, err := load()
	if err != nil {
		return nil, err
	}
	return conf, conf.ValidateOptions()
}

func load() (*Config, error) {
	if !flag.Parsed() {
		flag.Parse()
	}
	if configFile != "" {
		explicit := make(map[string]string)
		flag.Visit(func(f *flag.Flag) {
			explicit[f.Name] = f.Value.String()
		})
		if err := defaultConfig.LoadFile(configFile); err != nil {
			return nil, err
		}
		for name, val := range explicit {
			if err := flag.Set(name, val); err != nil {
				return nil, err
			}
		}
	}
	return NewConfig(), nil
}

// LoadFile overrides c with keys present in a TOML file.
func (c *Config) LoadFile(path string) error {
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	return nil
}

// IsSerial tells if Target refers to a serial device.
func (c *Config) IsSerial() bool {
	return !strings.Contains(c.Target, "://") || strings.HasPrefix(c.Target, "serial://")
}

// Validate checks the config.
func (c *Config) Validate() error {
	if c.Target == "" {
		return fmt.Errorf("target must be specified")
	}
	return c.ValidateOptions()
}

// ValidateOptions checks the config except Target.
func (c *Config) ValidateOptions() error {
	if c.Target != "" && c.IsSerial() {
		if _, err := c.Serial.Mode(); err != nil {
			return err
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %v", c.Timeout)
	}
	if c.PublishURL != "" {
		u, err := url.Parse(c.PublishURL)
		if err != nil {
			return fmt.Errorf("invalid publish URL: %v", err)
		}
		switch u.Scheme {
		case "mqtt", "tcp", "ssl", "ws", "wss":
		default:
			return fmt.Errorf("unknown publish URL scheme: %q", u.Scheme)
		}
	}
	return nil
}

// ID returns ReceiverID or one derived from the machine id.
func (c *Config) ID() string {
	if c.ReceiverID != "" {
		return c.ReceiverID
	}
	if id, err := machineid.ProtectedID(AppID); err == nil {
		return id[:16]
	}
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "unknown"
}

// Dial opens the configured transport.
func (c *Config) Dial(ctx context.Context) (transport.Conn, error) {
	return transport.Dial(ctx, c.Target, c.Serial)
}
