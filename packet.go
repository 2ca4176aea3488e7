package mqttlite

// Packet is implemented by every control packet this client can encode.
type Packet interface {
	// Type returns the packet type.
	Type() PacketType

	// RemainingLength returns the encoded size of the variable header and payload.
	RemainingLength() (int, error)

	// Encode writes the complete packet into buf.
	// Returns the number of bytes written. Nothing is written on error.
	Encode(buf []byte) (int, error)
}

// MaxPacketSize is the largest encoded packet: two fixed header bytes plus
// the single-byte remaining length limit.
const MaxPacketSize = fixedHeaderSize + MaxRemainingLength

// Message is an application message received from or sent to the broker.
type Message struct {
	// Topic is the topic name the message was published to.
	Topic string

	// Payload is the raw application payload.
	Payload []byte
}

// Clone creates a deep copy of the message.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}

	clone := &Message{Topic: m.Topic}
	if m.Payload != nil {
		clone.Payload = make([]byte, len(m.Payload))
		copy(clone.Payload, m.Payload)
	}

	return clone
}
