package mqttlite

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// Conn is the byte stream a client speaks MQTT over. Write sends a buffer and
// reports how many bytes were accepted; Read returns whatever is available,
// with io.EOF once the broker has closed the stream.
type Conn interface {
	net.Conn
}

// Dialer opens a Conn to a broker.
type Dialer interface {
	// Dial connects to the address with the given context.
	Dial(ctx context.Context, address string) (Conn, error)
}

// Transport names accepted in Config.Transport.
const (
	TransportTCP  = "tcp"
	TransportTLS  = "tls"
	TransportWS   = "ws"
	TransportWSS  = "wss"
	TransportQUIC = "quic"
	TransportUnix = "unix"
)

// TCPDialer connects to MQTT brokers over TCP.
type TCPDialer struct {
	// Timeout is the maximum time to wait for a connection.
	// Zero means no timeout.
	Timeout time.Duration

	// Proxy, when set, tunnels the connection through an HTTP or SOCKS5 proxy.
	Proxy *ProxyDialer
}

// Dial connects to the address.
func (d *TCPDialer) Dial(ctx context.Context, address string) (Conn, error) {
	if d.Proxy != nil {
		return d.Proxy.DialContext(ctx, "tcp", address)
	}

	dialer := net.Dialer{Timeout: d.Timeout}
	return dialer.DialContext(ctx, "tcp", address)
}

// TLSDialer connects to MQTT brokers over TLS.
type TLSDialer struct {
	// Config is the TLS configuration.
	Config *tls.Config

	// Timeout is the maximum time to wait for a connection.
	// Zero means no timeout.
	Timeout time.Duration

	// Proxy, when set, tunnels the connection through an HTTP or SOCKS5 proxy
	// before the TLS handshake.
	Proxy *ProxyDialer
}

// Dial connects to the address.
func (d *TLSDialer) Dial(ctx context.Context, address string) (Conn, error) {
	config := d.Config
	if config == nil {
		config = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	if d.Proxy != nil {
		conn, err := d.Proxy.DialContext(ctx, "tcp", address)
		if err != nil {
			return nil, err
		}

		if config.ServerName == "" {
			config = config.Clone()
			config.ServerName, _, _ = net.SplitHostPort(address)
		}

		tlsConn := tls.Client(conn, config)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("TLS handshake failed: %w", err)
		}
		return tlsConn, nil
	}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: d.Timeout},
		Config:    config,
	}
	return dialer.DialContext(ctx, "tcp", address)
}

// dialTarget returns the Dialer and address for the configured transport.
func dialTarget(cfg *Config, opts *clientOptions) (Dialer, string, error) {
	hostPort := net.JoinHostPort(cfg.Host, strconv.Itoa(int(cfg.Port)))
	if cfg.Transport == TransportUnix {
		hostPort = cfg.Host
	}

	if opts.dialer != nil {
		return opts.dialer, hostPort, nil
	}

	proxyDialer, err := resolveProxy(cfg.Proxy, cfg.Transport, hostPort)
	if err != nil {
		return nil, "", fmt.Errorf("proxy configuration error: %w", err)
	}

	switch cfg.Transport {
	case "", TransportTCP:
		return &TCPDialer{Proxy: proxyDialer}, hostPort, nil
	case TransportTLS:
		return &TLSDialer{Config: opts.tlsConfig, Proxy: proxyDialer}, hostPort, nil
	case TransportWS, TransportWSS:
		u := url.URL{Scheme: cfg.Transport, Host: hostPort, Path: cfg.WSPath}
		d := NewWSDialer()
		if opts.tlsConfig != nil {
			d.Dialer.TLSClientConfig = opts.tlsConfig
		}
		if proxyDialer != nil {
			d.Dialer.NetDialContext = proxyDialer.DialContext
		}
		return d, u.String(), nil
	case TransportQUIC:
		return NewQUICDialer(opts.tlsConfig), hostPort, nil
	case TransportUnix:
		return NewUnixDialer(), hostPort, nil
	default:
		return nil, "", fmt.Errorf("%w: unsupported transport %q", ErrInvalidConfig, cfg.Transport)
	}
}
