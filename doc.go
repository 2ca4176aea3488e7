// Package mqttlite is a minimal MQTT 3.1.1 client for fire-and-forget
// messaging at QoS 0.
//
// # Scope
//
// The client speaks CONNECT, CONNACK, PUBLISH, SUBSCRIBE, SUBACK, PINGREQ
// and DISCONNECT. Every packet is bounded by a single-byte remaining length,
// so no packet exceeds MaxPacketSize (129) bytes. There is no QoS 1 or 2, no
// retained or will messages, no session persistence, and no automatic
// reconnection or keep-alive scheduling.
//
// # Packets
//
// Each packet type has an Encode method that writes into a caller-provided
// buffer and a Decode function for inbound packets. Encoders fail with
// ErrRemainingLengthTooLarge or ErrBufferTooSmall and never write past the
// buffer. Use ReadFrame to split a byte stream into packets:
//
//	r := bufio.NewReader(conn)
//	frame, err := mqttlite.ReadFrame(r)
//
// # Client
//
// A Client is driven by a single goroutine. Connect blocks until CONNACK,
// Subscribe blocks until SUBACK, and Publish returns as soon as the packet
// is written. Inbound messages are delivered by calling ServiceOnce, which
// blocks for one packet:
//
//	client, err := mqttlite.New(mqttlite.Config{Host: "localhost", Port: 1883},
//	    mqttlite.WithMessageHandler(func(msg *mqttlite.Message) {
//	        fmt.Printf("%s: %s\n", msg.Topic, msg.Payload)
//	    }),
//	)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	if err := client.Connect(ctx); err != nil {
//	    return err
//	}
//	if err := client.Subscribe("sensors/#"); err != nil {
//	    return err
//	}
//	for {
//	    if err := client.ServiceOnce(); errors.Is(err, mqttlite.ErrConnectionLost) {
//	        return err
//	    }
//	}
//
// # Transports
//
// Config.Transport selects TCP, TLS, WebSocket (ws, wss), QUIC or a Unix
// domain socket (Host is the socket path). TCP, TLS and WebSocket
// connections may go through an HTTP CONNECT or SOCKS5 proxy.
// WithDialer plugs in any other byte stream.
//
// # Errors
//
// Sentinel errors are checked with errors.Is. A rejected CONNECT returns a
// *ConnectError carrying the CONNACK return code, a rejected SUBSCRIBE a
// *SubscribeError, and a dropped connection a *ConnectionLostError.
package mqttlite
