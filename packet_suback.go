package mqttlite

const subackMinSize = 5

// SubackPacket represents an MQTT SUBACK packet for a single subscription.
type SubackPacket struct {
	PacketID uint16

	// ReturnCode is the granted QoS, or SubackFailure.
	ReturnCode byte
}

// Type returns the packet type.
func (p *SubackPacket) Type() PacketType { return PacketSUBACK }

// DecodeSuback parses a SUBACK packet. The packet must be at least five bytes
// long with packet type 9. The last byte is the granted QoS; SubackFailure is
// reported as ErrSubscriptionRefused with the decoded packet.
func DecodeSuback(buf []byte) (*SubackPacket, error) {
	if len(buf) < subackMinSize {
		return nil, ErrIncompletePacket
	}
	if TypeOf(buf[0]) != PacketSUBACK {
		return nil, ErrUnexpectedPacketType
	}

	id, err := readUint16(buf[fixedHeaderSize:])
	if err != nil {
		return nil, err
	}

	p := &SubackPacket{
		PacketID:   id,
		ReturnCode: buf[len(buf)-1],
	}

	if p.ReturnCode == SubackFailure {
		return p, ErrSubscriptionRefused
	}

	return p, nil
}
