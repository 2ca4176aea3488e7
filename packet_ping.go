package mqttlite

// PingreqPacket represents an MQTT PINGREQ packet.
type PingreqPacket struct{}

// Type returns the packet type.
func (p *PingreqPacket) Type() PacketType { return PacketPINGREQ }

// RemainingLength returns zero; PINGREQ has no variable header or payload.
func (p *PingreqPacket) RemainingLength() (int, error) { return 0, nil }

// Encode writes the packet into buf.
func (p *PingreqPacket) Encode(buf []byte) (int, error) {
	return encodeEmpty(buf, headerPINGREQ)
}

// DisconnectPacket represents an MQTT DISCONNECT packet.
type DisconnectPacket struct{}

// Type returns the packet type.
func (p *DisconnectPacket) Type() PacketType { return PacketDISCONNECT }

// RemainingLength returns zero; DISCONNECT has no variable header or payload.
func (p *DisconnectPacket) RemainingLength() (int, error) { return 0, nil }

// Encode writes the packet into buf.
func (p *DisconnectPacket) Encode(buf []byte) (int, error) {
	return encodeEmpty(buf, headerDISCONNECT)
}

func encodeEmpty(buf []byte, first byte) (int, error) {
	if err := checkPacketSize(buf, 0); err != nil {
		return 0, err
	}
	buf[0] = first
	buf[1] = 0x00
	return fixedHeaderSize, nil
}
