package mqttlite

const publishMinSize = 4

// PublishPacket represents a QoS 0 MQTT PUBLISH packet.
type PublishPacket struct {
	// Topic is the topic name.
	Topic string

	// Payload is appended verbatim after the topic; its length is implied by
	// the remaining length.
	Payload []byte
}

// Type returns the packet type.
func (p *PublishPacket) Type() PacketType {
	return PacketPUBLISH
}

// RemainingLength returns the encoded size of the variable header and payload.
func (p *PublishPacket) RemainingLength() (int, error) {
	topicSize, err := stringSize(p.Topic)
	if err != nil {
		return 0, err
	}
	return topicSize + len(p.Payload), nil
}

// Encode writes the packet into buf.
func (p *PublishPacket) Encode(buf []byte) (int, error) {
	remaining, err := p.RemainingLength()
	if err != nil {
		return 0, err
	}
	if err := checkPacketSize(buf, remaining); err != nil {
		return 0, err
	}

	buf[0] = headerPUBLISH
	buf[1] = byte(remaining)
	n := fixedHeaderSize

	n += putString(buf[n:], p.Topic)
	n += copy(buf[n:], p.Payload)

	return n, nil
}

// Message returns the packet as an application message.
func (p *PublishPacket) Message() *Message {
	return &Message{Topic: p.Topic, Payload: p.Payload}
}

// DecodePublish parses a QoS 0 PUBLISH packet.
//
// Only the single-byte remaining length form is accepted. The topic must be
// strictly shorter than maxTopicSize. There is no packet identifier at QoS 0,
// so everything after the topic is payload. The returned payload aliases buf.
func DecodePublish(buf []byte, maxTopicSize int) (*PublishPacket, error) {
	if len(buf) < publishMinSize {
		return nil, ErrIncompletePacket
	}
	if TypeOf(buf[0]) != PacketPUBLISH {
		return nil, ErrUnexpectedPacketType
	}

	var header FixedHeader
	if _, err := header.Decode(buf); err != nil {
		return nil, err
	}
	if len(buf) < header.Size() {
		return nil, ErrIncompletePacket
	}

	body := buf[fixedHeaderSize:header.Size()]

	topic, n, err := readString(body)
	if err != nil {
		return nil, err
	}
	if len(topic)+1 > maxTopicSize {
		return nil, ErrTopicTooLong
	}

	return &PublishPacket{
		Topic:   string(topic),
		Payload: body[n:],
	}, nil
}
