package mqttlite

const (
	protocolName  = "MQTT"
	protocolLevel = 4 // MQTT 3.1.1

	// Protocol name (2+4), level, connect flags and keep alive (2).
	connectVariableHeaderSize = 10
)

// ConnectPacket represents an MQTT CONNECT packet.
//
// The connect flags byte is always zero: no will message, no user name, no
// password and no clean session request.
type ConnectPacket struct {
	// ClientID is the client identifier sent in the payload.
	ClientID string

	// KeepAlive is the advertised keep-alive interval in seconds.
	KeepAlive uint16
}

// Type returns the packet type.
func (p *ConnectPacket) Type() PacketType {
	return PacketCONNECT
}

// RemainingLength returns the encoded size of the variable header and payload.
func (p *ConnectPacket) RemainingLength() (int, error) {
	idSize, err := stringSize(p.ClientID)
	if err != nil {
		return 0, err
	}
	return connectVariableHeaderSize + idSize, nil
}

// Encode writes the packet into buf.
func (p *ConnectPacket) Encode(buf []byte) (int, error) {
	remaining, err := p.RemainingLength()
	if err != nil {
		return 0, err
	}
	if err := checkPacketSize(buf, remaining); err != nil {
		return 0, err
	}

	buf[0] = headerCONNECT
	buf[1] = byte(remaining)
	n := fixedHeaderSize

	// Variable header
	n += putString(buf[n:], protocolName)
	buf[n] = protocolLevel
	buf[n+1] = 0x00 // connect flags
	n += 2
	n += putUint16(buf[n:], p.KeepAlive)

	// Payload
	n += putString(buf[n:], p.ClientID)

	return n, nil
}
