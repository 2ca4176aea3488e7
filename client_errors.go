package mqttlite

import (
	"errors"
	"io"
)

// Sentinel errors for configuration - check with errors.Is().
var (
	// ErrInvalidConfig is returned when a client is created from an invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Sentinel errors for transport issues - check with errors.Is().
var (
	// ErrShortWrite is returned when the transport accepts fewer bytes than requested.
	ErrShortWrite = io.ErrShortWrite

	// ErrConnectionClosed is returned when the broker closes the stream.
	ErrConnectionClosed = errors.New("connection closed by broker")

	// ErrConnectionLost is returned by ServiceOnce when the connection can no longer be used.
	ErrConnectionLost = errors.New("connection lost")
)

// Sentinel errors for protocol issues - check with errors.Is().
var (
	// ErrProtocolError is returned when the broker violates the protocol sequence.
	ErrProtocolError = errors.New("protocol error")

	// ErrConnectionRefused is returned when the broker rejects CONNECT.
	ErrConnectionRefused = errors.New("connection refused")

	// ErrSubscriptionRefused is returned when the broker rejects SUBSCRIBE.
	ErrSubscriptionRefused = errors.New("subscription refused")
)

// Sentinel errors for operations - check with errors.Is().
var (
	// ErrNotConnected is returned when an operation requires an active connection.
	ErrNotConnected = errors.New("not connected")

	// ErrClientClosed is returned when an operation is attempted on a closed client.
	ErrClientClosed = errors.New("client closed")

	// ErrInvalidTopic is returned when a topic is empty or contains wildcards.
	ErrInvalidTopic = errors.New("invalid topic")
)

// ConnectError contains the return code of a rejected CONNECT.
// Extract with errors.As().
type ConnectError struct {
	err        error
	ReturnCode ReturnCode
}

func (e *ConnectError) Error() string {
	return "connect failed: " + e.ReturnCode.String()
}

func (e *ConnectError) Unwrap() error { return e.err }

// NewConnectError creates a new ConnectError from a CONNACK return code.
func NewConnectError(code ReturnCode) *ConnectError {
	return &ConnectError{
		err:        ErrConnectionRefused,
		ReturnCode: code,
	}
}

// SubscribeError contains details about a failed subscribe operation.
// Extract with errors.As().
type SubscribeError struct {
	err      error
	Topic    string
	PacketID uint16
}

func (e *SubscribeError) Error() string {
	return "subscribe failed: " + e.Topic + ": " + e.err.Error()
}

func (e *SubscribeError) Unwrap() error { return e.err }

// NewSubscribeError creates a new SubscribeError.
func NewSubscribeError(topic string, packetID uint16, cause error) *SubscribeError {
	return &SubscribeError{
		err:      cause,
		Topic:    topic,
		PacketID: packetID,
	}
}

// ConnectionLostError contains details about an unexpected disconnection.
// Extract with errors.As().
type ConnectionLostError struct {
	Cause error
}

func (e *ConnectionLostError) Error() string {
	if e.Cause != nil {
		return "connection lost: " + e.Cause.Error()
	}
	return "connection lost"
}

// Unwrap returns both the ErrConnectionLost sentinel and the cause.
func (e *ConnectionLostError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrConnectionLost}
	}
	return []error{ErrConnectionLost, e.Cause}
}

// NewConnectionLostError creates a new ConnectionLostError.
func NewConnectionLostError(cause error) *ConnectionLostError {
	return &ConnectionLostError{Cause: cause}
}
