package mqttlite

import (
	"context"
	"net"
)

// UnixDialer connects to MQTT brokers over Unix domain sockets.
type UnixDialer struct{}

// NewUnixDialer creates a new Unix socket dialer.
func NewUnixDialer() *UnixDialer {
	return &UnixDialer{}
}

// Dial connects to the Unix socket at the given path
// (e.g., "/var/run/mosquitto.sock").
func (d *UnixDialer) Dial(ctx context.Context, path string) (Conn, error) {
	var dialer net.Dialer
	return dialer.DialContext(ctx, "unix", path)
}
