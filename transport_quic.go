package mqttlite

import (
	"context"
	"crypto/tls"
	"net"
	"sync"
	"time"

	"github.com/quic-go/quic-go"
)

// alpnMQTT is the ALPN protocol negotiated for MQTT over QUIC.
const alpnMQTT = "mqtt"

// QUICConn carries MQTT over a single bidirectional QUIC stream.
type QUICConn struct {
	conn   *quic.Conn
	stream *quic.Stream
	once   sync.Once
	err    error
}

// Read reads data from the QUIC stream.
func (c *QUICConn) Read(b []byte) (int, error) {
	return c.stream.Read(b)
}

// Write writes data to the QUIC stream.
func (c *QUICConn) Write(b []byte) (int, error) {
	return c.stream.Write(b)
}

// Close closes the stream and then the QUIC connection. Only the first call
// has any effect.
func (c *QUICConn) Close() error {
	c.once.Do(func() {
		c.err = c.stream.Close()
		if err := c.conn.CloseWithError(0, ""); c.err == nil {
			c.err = err
		}
	})
	return c.err
}

// LocalAddr returns the local network address.
func (c *QUICConn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// RemoteAddr returns the remote network address.
func (c *QUICConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// SetDeadline sets the read and write deadlines.
func (c *QUICConn) SetDeadline(t time.Time) error {
	return c.stream.SetDeadline(t)
}

// SetReadDeadline sets the read deadline.
func (c *QUICConn) SetReadDeadline(t time.Time) error {
	return c.stream.SetReadDeadline(t)
}

// SetWriteDeadline sets the write deadline.
func (c *QUICConn) SetWriteDeadline(t time.Time) error {
	return c.stream.SetWriteDeadline(t)
}

// QUICDialer connects to MQTT brokers over QUIC. QUIC always runs over
// TLS 1.3 and negotiates the "mqtt" ALPN protocol.
type QUICDialer struct {
	TLSConfig  *tls.Config
	QUICConfig *quic.Config
}

// NewQUICDialer creates a QUIC dialer. A nil tlsConfig uses TLS 1.3 defaults.
func NewQUICDialer(tlsConfig *tls.Config) *QUICDialer {
	return &QUICDialer{TLSConfig: tlsConfig}
}

// Dial connects to host:port and opens the stream MQTT runs on.
func (d *QUICDialer) Dial(ctx context.Context, address string) (Conn, error) {
	conn, err := quic.DialAddr(ctx, address, quicTLSConfig(d.TLSConfig), d.QUICConfig)
	if err != nil {
		return nil, err
	}

	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		conn.CloseWithError(0, "failed to open stream")
		return nil, err
	}

	return &QUICConn{conn: conn, stream: stream}, nil
}

func quicTLSConfig(config *tls.Config) *tls.Config {
	if config == nil {
		return &tls.Config{
			MinVersion: tls.VersionTLS13,
			NextProtos: []string{alpnMQTT},
		}
	}

	if len(config.NextProtos) == 0 || config.MinVersion < tls.VersionTLS13 {
		config = config.Clone()
		config.MinVersion = tls.VersionTLS13
		if len(config.NextProtos) == 0 {
			config.NextProtos = []string{alpnMQTT}
		}
	}

	return config
}
