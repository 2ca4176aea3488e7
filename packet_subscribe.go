package mqttlite

import "errors"

// ErrInvalidPacketID is returned when a packet identifier is zero.
var ErrInvalidPacketID = errors.New("invalid packet identifier")

// SubscribePacket represents an MQTT SUBSCRIBE packet for a single topic
// filter at QoS 0.
type SubscribePacket struct {
	PacketID    uint16
	TopicFilter string
}

// Type returns the packet type.
func (p *SubscribePacket) Type() PacketType { return PacketSUBSCRIBE }

// RemainingLength returns the encoded size of the variable header and payload.
func (p *SubscribePacket) RemainingLength() (int, error) {
	filterSize, err := stringSize(p.TopicFilter)
	if err != nil {
		return 0, err
	}
	// Packet identifier, topic filter, requested QoS.
	return 2 + filterSize + 1, nil
}

// Encode writes the packet into buf.
func (p *SubscribePacket) Encode(buf []byte) (int, error) {
	if p.PacketID == 0 {
		return 0, ErrInvalidPacketID
	}

	remaining, err := p.RemainingLength()
	if err != nil {
		return 0, err
	}
	if err := checkPacketSize(buf, remaining); err != nil {
		return 0, err
	}

	buf[0] = headerSUBSCRIBE
	buf[1] = byte(remaining)
	n := fixedHeaderSize

	// Variable header
	n += putUint16(buf[n:], p.PacketID)

	// Payload: topic filter and requested QoS 0
	n += putString(buf[n:], p.TopicFilter)
	buf[n] = 0x00
	n++

	return n, nil
}
