package mqttlite

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the connection settings of a client. It is copied when a
// client is created and never changes afterwards.
type Config struct {
	// Host is the broker host name or IP address, or the socket path for
	// the unix transport. Required.
	Host string `yaml:"host"`

	// Port is the broker port. Required except for the unix transport.
	Port uint16 `yaml:"port"`

	// ClientID is sent in CONNECT. A unique identifier is generated when empty.
	ClientID string `yaml:"client_id"`

	// KeepAlive is the keep-alive interval in seconds advertised in CONNECT.
	// The client does not schedule pings; see Client.Ping.
	KeepAlive uint16 `yaml:"keep_alive"`

	// Username and Password are carried for callers but are not sent in
	// CONNECT; the connect flags byte is always zero.
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// Transport selects the byte stream: tcp (default), tls, ws, wss, quic
	// or unix.
	Transport string `yaml:"transport"`

	// WSPath is the request path for ws and wss transports.
	WSPath string `yaml:"ws_path"`

	// Proxy is an http, https or socks5 proxy URL, or "env" to use
	// HTTP_PROXY, HTTPS_PROXY and NO_PROXY. Ignored for quic.
	Proxy string `yaml:"proxy"`

	// ConnectTimeout bounds dialing and waiting for CONNACK.
	// Zero means Connect blocks until the broker answers.
	ConnectTimeout time.Duration `yaml:"connect_timeout"`

	// MaxTopicSize bounds the topic of inbound PUBLISH packets; a topic must
	// be strictly shorter than this value.
	MaxTopicSize int `yaml:"max_topic_size"`
}

// Default configuration values.
const (
	DefaultPort         = 1883
	DefaultKeepAlive    = 60
	DefaultMaxTopicSize = 256
)

// DefaultConfig returns a configuration with defaults for everything but Host.
func DefaultConfig() Config {
	return Config{
		Port:         DefaultPort,
		KeepAlive:    DefaultKeepAlive,
		Transport:    TransportTCP,
		WSPath:       DefaultWSPath,
		MaxTopicSize: DefaultMaxTopicSize,
	}
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig, then
// applies environment overrides and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Environment variables that override file settings.
const (
	EnvHost     = "MQTTLITE_HOST"
	EnvPort     = "MQTTLITE_PORT"
	EnvClientID = "MQTTLITE_CLIENT_ID"
	EnvUsername = "MQTTLITE_USERNAME"
	EnvPassword = "MQTTLITE_PASSWORD"
)

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a port number", ErrInvalidConfig, EnvPort, v)
		}
		c.Port = uint16(port)
	}
	if v := os.Getenv(EnvClientID); v != "" {
		c.ClientID = v
	}
	if v := os.Getenv(EnvUsername); v != "" {
		c.Username = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		c.Password = v
	}
	return nil
}

// Validate checks the configuration. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidConfig)
	}

	switch c.Transport {
	case "", TransportTCP, TransportTLS, TransportWS, TransportWSS, TransportQUIC:
		if c.Port == 0 {
			return fmt.Errorf("%w: port must be non-zero", ErrInvalidConfig)
		}
	case TransportUnix:
	default:
		return fmt.Errorf("%w: unsupported transport %q", ErrInvalidConfig, c.Transport)
	}

	if len(c.ClientID) > maxUint16 {
		return fmt.Errorf("%w: client id is too long", ErrInvalidConfig)
	}
	if c.MaxTopicSize < 0 {
		return fmt.Errorf("%w: max_topic_size must not be negative", ErrInvalidConfig)
	}
	if c.ConnectTimeout < 0 {
		return fmt.Errorf("%w: connect_timeout must not be negative", ErrInvalidConfig)
	}

	return nil
}

// withDefaults fills zero optional fields.
func (c Config) withDefaults() Config {
	if c.Transport == "" {
		c.Transport = TransportTCP
	}
	if c.WSPath == "" {
		c.WSPath = DefaultWSPath
	}
	if c.MaxTopicSize == 0 {
		c.MaxTopicSize = DefaultMaxTopicSize
	}
	return c
}
