package mqttlite

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketSubprotocol is the MQTT WebSocket subprotocol.
const WebSocketSubprotocol = "mqtt"

// DefaultWSPath is the request path used when Config.WSPath is empty.
const DefaultWSPath = "/mqtt"

// WSConn adapts a WebSocket connection to a byte stream. MQTT packets travel
// in binary messages; a message may carry part of a packet or several
// packets, so reads drain the current message before fetching the next.
type WSConn struct {
	conn    *websocket.Conn
	pending []byte
}

// Read reads data from the connection.
func (c *WSConn) Read(b []byte) (int, error) {
	for len(c.pending) == 0 {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			return 0, err
		}
		if messageType != websocket.BinaryMessage {
			return 0, ErrProtocolError
		}
		c.pending = data
	}

	n := copy(b, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

// Write sends b as a single binary message.
func (c *WSConn) Write(b []byte) (int, error) {
	if err := c.conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
		return 0, err
	}
	return len(b), nil
}

// Close closes the connection.
func (c *WSConn) Close() error {
	return c.conn.Close()
}

// LocalAddr returns the local network address.
func (c *WSConn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// RemoteAddr returns the remote network address.
func (c *WSConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// SetDeadline sets the read and write deadlines.
func (c *WSConn) SetDeadline(t time.Time) error {
	if err := c.conn.SetReadDeadline(t); err != nil {
		return err
	}
	return c.conn.SetWriteDeadline(t)
}

// SetReadDeadline sets the read deadline.
func (c *WSConn) SetReadDeadline(t time.Time) error {
	return c.conn.SetReadDeadline(t)
}

// SetWriteDeadline sets the write deadline.
func (c *WSConn) SetWriteDeadline(t time.Time) error {
	return c.conn.SetWriteDeadline(t)
}

// WSDialer connects to MQTT brokers over WebSocket.
type WSDialer struct {
	// Dialer is the underlying WebSocket dialer.
	Dialer *websocket.Dialer

	// Header is the HTTP header to send with the handshake.
	Header http.Header
}

// NewWSDialer creates a WebSocket dialer that negotiates the mqtt subprotocol.
func NewWSDialer() *WSDialer {
	return &WSDialer{
		Dialer: &websocket.Dialer{
			Subprotocols:     []string{WebSocketSubprotocol},
			ReadBufferSize:   MaxPacketSize * 4,
			WriteBufferSize:  MaxPacketSize * 4,
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// Dial connects to the WebSocket URL, e.g. ws://broker:8080/mqtt.
func (d *WSDialer) Dial(ctx context.Context, address string) (Conn, error) {
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	conn, resp, err := dialer.DialContext(ctx, address, d.Header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	return &WSConn{conn: conn}, nil
}
