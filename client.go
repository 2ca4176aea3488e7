package mqttlite

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
)

// MessageHandler is called by ServiceOnce for every inbound PUBLISH.
// The message is owned by the handler.
type MessageHandler func(msg *Message)

// State is the connection state of a Client.
type State int

// Client states.
const (
	StateDisconnected State = iota
	StateConnected
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// readBufferSize holds a handful of maximum-size frames.
const readBufferSize = 4 * MaxPacketSize

// Client is a minimal MQTT 3.1.1 client speaking QoS 0 only.
//
// A Client is not safe for concurrent use. All calls, including
// ServiceOnce, must come from a single goroutine or be serialized by
// the caller. The connection is present exactly when the client is in
// StateConnected.
type Client struct {
	config  Config
	options *clientOptions
	log     Logger
	metrics clientMetrics

	conn   Conn
	reader *bufio.Reader
	state  State
	closed bool

	packetIDs *PacketIDAllocator

	// scratch holds one outbound packet; encoders never exceed it.
	scratch [MaxPacketSize]byte
}

// New creates a disconnected client. The configuration is validated and
// copied; a client id is generated when none is set.
func New(config Config, opts ...Option) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config = config.withDefaults()
	if config.ClientID == "" {
		config.ClientID = generateClientID()
	}

	options := applyOptions(opts...)

	c := &Client{
		config:    config,
		options:   options,
		metrics:   clientMetrics{metrics: options.metrics},
		state:     StateDisconnected,
		packetIDs: NewPacketIDAllocator(),
	}
	c.log = options.logger.WithFields(LogFields{LogFieldClientID: config.ClientID})

	if config.Username != "" || config.Password != "" {
		c.log.Warn("credentials are configured but not sent; CONNECT carries no username or password", nil)
	}

	return c, nil
}

// generateClientID generates a unique client ID.
func generateClientID() string {
	return "mqttlite-" + xid.New().String()
}

// Connect opens the transport, sends CONNECT and waits for CONNACK.
// It returns nil without any network traffic when already connected.
// On failure the transport is closed and the client stays disconnected;
// a broker rejection is reported as a *ConnectError.
func (c *Client) Connect(ctx context.Context) error {
	if c.closed {
		return ErrClientClosed
	}
	if c.state == StateConnected {
		return nil
	}

	if c.config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.ConnectTimeout)
		defer cancel()
	}

	dialer, address, err := dialTarget(&c.config, c.options)
	if err != nil {
		return err
	}

	c.log.Debug("dialing broker", LogFields{LogFieldRemoteAddr: address})

	conn, err := dialer.Dial(ctx, address)
	if err != nil {
		return fmt.Errorf("dial %s: %w", address, err)
	}

	reader := bufio.NewReaderSize(conn, readBufferSize)

	connack, err := c.handshake(ctx, conn, reader)
	if err != nil {
		conn.Close()

		var connectErr *ConnectError
		if errors.As(err, &connectErr) {
			c.log.Warn("broker refused connection", LogFields{
				LogFieldReturnCode: connectErr.ReturnCode.String(),
			})
		}
		return err
	}

	c.conn = conn
	c.reader = reader
	c.state = StateConnected
	c.metrics.connected(true)

	c.log.Info("connected", LogFields{
		LogFieldRemoteAddr: address,
		"session_present":  connack.SessionPresent,
	})

	return nil
}

// handshake sends CONNECT and reads the CONNACK on a fresh transport.
func (c *Client) handshake(ctx context.Context, conn Conn, reader *bufio.Reader) (*ConnackPacket, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, err
		}
		defer conn.SetDeadline(time.Time{})
	}

	connect := &ConnectPacket{
		ClientID:  c.config.ClientID,
		KeepAlive: c.config.KeepAlive,
	}
	if err := c.send(conn, connect); err != nil {
		return nil, err
	}

	frame, err := ReadFrame(reader)
	if err != nil {
		return nil, fmt.Errorf("waiting for CONNACK: %w", err)
	}
	c.metrics.packetReceived(TypeOf(frame[0]), len(frame))

	return DecodeConnack(frame)
}

// Disconnect sends DISCONNECT on a best-effort basis and closes the
// transport. It is a no-op when not connected.
func (c *Client) Disconnect() error {
	if c.state != StateConnected {
		return nil
	}

	if err := c.send(c.conn, &DisconnectPacket{}); err != nil {
		c.log.Debug("failed to send DISCONNECT", LogFields{LogFieldError: err.Error()})
	}

	err := c.teardown()
	c.log.Info("disconnected", nil)
	return err
}

// Publish sends a QoS 0 PUBLISH. It does not wait for anything from the
// broker. Encoding errors leave the connection untouched; a failed write
// drops it.
func (c *Client) Publish(topic string, payload []byte) error {
	if err := c.ready(); err != nil {
		return err
	}

	if err := ValidateTopicName(topic); err != nil {
		return err
	}

	pkt := &PublishPacket{Topic: topic, Payload: payload}
	remaining, err := pkt.RemainingLength()
	if err != nil {
		return err
	}
	if remaining > MaxRemainingLength {
		return fmt.Errorf("%w: %d", ErrRemainingLengthTooLarge, remaining)
	}

	if limiter := c.options.publishLimiter; limiter != nil {
		if err := limiter.Wait(context.Background()); err != nil {
			return err
		}
	}

	if err := c.write(pkt); err != nil {
		return err
	}

	c.metrics.messageSent()
	c.log.Debug("published", LogFields{LogFieldTopic: topic, LogFieldBytes: len(payload)})

	return nil
}

// Subscribe sends SUBSCRIBE for a single filter at QoS 0 and blocks until
// the matching SUBACK arrives. Inbound PUBLISH packets received while
// waiting are delivered to the message handler; malformed or oversized
// ones are skipped. A rejected filter is reported as a *SubscribeError.
func (c *Client) Subscribe(filter string) error {
	if err := c.ready(); err != nil {
		return err
	}

	if err := ValidateTopicFilter(filter); err != nil {
		return err
	}

	pkt := &SubscribePacket{PacketID: c.packetIDs.Next(), TopicFilter: filter}
	if err := c.write(pkt); err != nil {
		return err
	}

	for {
		frame, err := c.readFrame()
		if errors.Is(err, ErrPacketTooLarge) {
			continue
		}
		if err != nil {
			return err
		}

		// Decode failures are already logged and counted by dispatch and
		// must not end the wait for SUBACK.
		if TypeOf(frame[0]) != PacketSUBACK {
			_ = c.dispatch(frame)
			continue
		}

		suback, err := DecodeSuback(frame)
		if err != nil {
			if errors.Is(err, ErrSubscriptionRefused) {
				c.log.Warn("subscription refused", LogFields{LogFieldTopic: filter, LogFieldPacketID: pkt.PacketID})
			} else {
				c.metrics.decodeError(PacketSUBACK)
			}
			return NewSubscribeError(filter, pkt.PacketID, err)
		}

		if suback.PacketID != pkt.PacketID {
			return NewSubscribeError(filter, pkt.PacketID,
				fmt.Errorf("%w: SUBACK for packet id %d", ErrProtocolError, suback.PacketID))
		}

		c.log.Info("subscribed", LogFields{LogFieldTopic: filter, LogFieldPacketID: pkt.PacketID})
		return nil
	}
}

// Ping sends PINGREQ. The client never schedules pings itself; callers
// that configure a keep-alive must call Ping often enough. PINGRESP is
// consumed by ServiceOnce.
func (c *Client) Ping() error {
	if err := c.ready(); err != nil {
		return err
	}
	return c.write(&PingreqPacket{})
}

// ServiceOnce blocks until one packet arrives and handles it. PUBLISH is
// decoded and passed to the message handler; other packets are ignored.
//
// When the broker closes the stream or the transport fails the client
// transitions to StateDisconnected and a *ConnectionLostError is returned.
// Decode failures and oversized packets are returned without dropping
// the connection.
func (c *Client) ServiceOnce() error {
	if err := c.ready(); err != nil {
		return err
	}

	frame, err := c.readFrame()
	if err != nil {
		return err
	}

	return c.dispatch(frame)
}

// Close disconnects and releases the client. Later calls fail with
// ErrClientClosed.
func (c *Client) Close() error {
	if c.closed {
		return nil
	}

	err := c.Disconnect()
	c.closed = true
	return err
}

// State returns the connection state.
func (c *Client) State() State {
	return c.state
}

// IsConnected returns true if the client is connected.
func (c *Client) IsConnected() bool {
	return c.state == StateConnected && !c.closed
}

// ClientID returns the client identifier sent in CONNECT.
func (c *Client) ClientID() string {
	return c.config.ClientID
}

// Config returns a copy of the effective configuration.
func (c *Client) Config() Config {
	return c.config
}

// ready checks that an operation can use the connection.
func (c *Client) ready() error {
	if c.closed {
		return ErrClientClosed
	}
	if c.state != StateConnected {
		return ErrNotConnected
	}
	return nil
}

// dispatch handles one inbound frame outside of a request/response exchange.
func (c *Client) dispatch(frame []byte) error {
	packetType := TypeOf(frame[0])

	switch packetType {
	case PacketPUBLISH:
		pkt, err := DecodePublish(frame, c.config.MaxTopicSize)
		if err != nil {
			c.metrics.decodeError(packetType)
			c.log.Warn("dropping malformed PUBLISH", LogFields{LogFieldError: err.Error()})
			return fmt.Errorf("decode PUBLISH: %w", err)
		}

		c.metrics.messageReceived()
		if c.options.handler != nil {
			c.options.handler(pkt.Message())
		}

	case PacketPINGRESP:
		c.log.Debug("received PINGRESP", nil)

	default:
		c.log.Debug("ignoring packet", LogFields{LogFieldPacketType: packetType.String()})
	}

	return nil
}

// readFrame reads one frame from the connection. Errors other than an
// oversized frame leave the stream unusable and drop the connection.
func (c *Client) readFrame() ([]byte, error) {
	frame, err := ReadFrame(c.reader)
	if err != nil {
		if errors.Is(err, ErrPacketTooLarge) {
			c.metrics.decodeError(PacketType(0))
			c.log.Warn("discarded oversized packet", LogFields{LogFieldError: err.Error()})
			return nil, err
		}
		return nil, c.connectionLost(err)
	}

	c.metrics.packetReceived(TypeOf(frame[0]), len(frame))
	return frame, nil
}

// write sends pkt on the active connection. A transport failure drops
// the connection since a partial packet leaves the stream unusable.
func (c *Client) write(pkt Packet) error {
	err := c.send(c.conn, pkt)
	if err == nil {
		return nil
	}

	var transportErr *writeError
	if errors.As(err, &transportErr) {
		return c.connectionLost(err)
	}
	return err
}

// writeError marks a failure of the transport rather than the encoder.
type writeError struct {
	err error
}

func (e *writeError) Error() string { return e.err.Error() }

func (e *writeError) Unwrap() error { return e.err }

// send encodes pkt into the scratch buffer and writes it to conn in one call.
func (c *Client) send(conn Conn, pkt Packet) error {
	n, err := pkt.Encode(c.scratch[:])
	if err != nil {
		return fmt.Errorf("encode %s: %w", pkt.Type(), err)
	}

	if c.options.writeTimeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(c.options.writeTimeout)); err != nil {
			return &writeError{err: fmt.Errorf("write %s: set deadline: %w", pkt.Type(), err)}
		}
		defer conn.SetWriteDeadline(time.Time{})
	}

	written, err := conn.Write(c.scratch[:n])
	if err != nil {
		return &writeError{err: fmt.Errorf("write %s: %w", pkt.Type(), err)}
	}
	if written != n {
		return &writeError{err: fmt.Errorf("write %s: %w (%d of %d bytes)", pkt.Type(), ErrShortWrite, written, n)}
	}

	c.metrics.packetSent(pkt.Type(), n)
	return nil
}

// connectionLost drops the connection and wraps cause.
func (c *Client) connectionLost(cause error) error {
	if err := c.teardown(); err != nil {
		c.log.Debug("error closing transport", LogFields{LogFieldError: err.Error()})
	}
	c.log.Warn("connection lost", LogFields{LogFieldError: cause.Error()})
	return NewConnectionLostError(cause)
}

// teardown closes the transport exactly once and enters StateDisconnected.
func (c *Client) teardown() error {
	if c.conn == nil {
		return nil
	}

	err := c.conn.Close()
	c.conn = nil
	c.reader = nil
	c.state = StateDisconnected
	c.metrics.connected(false)
	return err
}
