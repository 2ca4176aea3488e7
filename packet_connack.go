package mqttlite

const connackMinSize = 4

// ConnackPacket represents an MQTT CONNACK packet.
type ConnackPacket struct {
	// SessionPresent reports whether the broker resumed a stored session.
	SessionPresent bool

	// ReturnCode is the broker's connection result.
	ReturnCode ReturnCode
}

// Type returns the packet type.
func (p *ConnackPacket) Type() PacketType {
	return PacketCONNACK
}

// DecodeConnack parses a CONNACK packet. The packet must be at least four
// bytes long and start with 0x20. A non-zero return code is reported as a
// *ConnectError wrapping ErrConnectionRefused; the decoded packet is
// returned alongside it.
func DecodeConnack(buf []byte) (*ConnackPacket, error) {
	if len(buf) < connackMinSize {
		return nil, ErrIncompletePacket
	}
	if buf[0] != headerCONNACK {
		return nil, ErrUnexpectedPacketType
	}

	p := &ConnackPacket{
		SessionPresent: buf[2]&0x01 != 0,
		ReturnCode:     ReturnCode(buf[3]),
	}

	if p.ReturnCode != ReturnAccepted {
		return p, NewConnectError(p.ReturnCode)
	}

	return p, nil
}
