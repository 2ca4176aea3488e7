package mqttlite

import (
	"errors"
)

// PacketType represents an MQTT control packet type.
type PacketType byte

// MQTT 3.1.1 control packet types.
const (
	PacketCONNECT     PacketType = 1
	PacketCONNACK     PacketType = 2
	PacketPUBLISH     PacketType = 3
	PacketPUBACK      PacketType = 4
	PacketPUBREC      PacketType = 5
	PacketPUBREL      PacketType = 6
	PacketPUBCOMP     PacketType = 7
	PacketSUBSCRIBE   PacketType = 8
	PacketSUBACK      PacketType = 9
	PacketUNSUBSCRIBE PacketType = 10
	PacketUNSUBACK    PacketType = 11
	PacketPINGREQ     PacketType = 12
	PacketPINGRESP    PacketType = 13
	PacketDISCONNECT  PacketType = 14
)

// String returns the string representation of the packet type.
func (p PacketType) String() string {
	switch p {
	case PacketCONNECT:
		return "CONNECT"
	case PacketCONNACK:
		return "CONNACK"
	case PacketPUBLISH:
		return "PUBLISH"
	case PacketPUBACK:
		return "PUBACK"
	case PacketPUBREC:
		return "PUBREC"
	case PacketPUBREL:
		return "PUBREL"
	case PacketPUBCOMP:
		return "PUBCOMP"
	case PacketSUBSCRIBE:
		return "SUBSCRIBE"
	case PacketSUBACK:
		return "SUBACK"
	case PacketUNSUBSCRIBE:
		return "UNSUBSCRIBE"
	case PacketUNSUBACK:
		return "UNSUBACK"
	case PacketPINGREQ:
		return "PINGREQ"
	case PacketPINGRESP:
		return "PINGRESP"
	case PacketDISCONNECT:
		return "DISCONNECT"
	default:
		return "UNKNOWN"
	}
}

// Valid returns true if the packet type is a 3.1.1 control packet type.
func (p PacketType) Valid() bool {
	return p >= PacketCONNECT && p <= PacketDISCONNECT
}

// TypeOf returns the packet type encoded in the high nibble of a fixed header byte.
func TypeOf(first byte) PacketType {
	return PacketType(first >> 4)
}

// First bytes of the fixed headers this client produces or expects.
const (
	headerCONNECT    byte = 0x10
	headerCONNACK    byte = 0x20
	headerPUBLISH    byte = 0x30 // QoS 0, no DUP, no RETAIN
	headerSUBSCRIBE  byte = 0x82 // flags 0010 are mandatory for SUBSCRIBE
	headerPINGREQ    byte = 0xC0
	headerDISCONNECT byte = 0xE0
)

// MaxRemainingLength is the largest remaining length this client encodes or
// decodes. Only the single-byte remaining length form is supported, so the
// variable header plus payload of any packet is limited to 127 bytes.
const MaxRemainingLength = 127

const (
	fixedHeaderSize = 2
	continuationBit = 0x80
)

// Fixed header errors.
var (
	ErrInvalidPacketType       = errors.New("invalid packet type")
	ErrRemainingLengthTooLarge = errors.New("remaining length exceeds 127 bytes")
	ErrBufferTooSmall          = errors.New("destination buffer too small")
)

// FixedHeader represents the fixed header of an MQTT control packet.
type FixedHeader struct {
	PacketType      PacketType
	Flags           byte
	RemainingLength int
}

// Encode writes the two byte fixed header into buf.
// Returns the number of bytes written.
func (h *FixedHeader) Encode(buf []byte) (int, error) {
	if !h.PacketType.Valid() {
		return 0, ErrInvalidPacketType
	}
	if h.RemainingLength < 0 || h.RemainingLength > MaxRemainingLength {
		return 0, ErrRemainingLengthTooLarge
	}
	if len(buf) < fixedHeaderSize {
		return 0, ErrBufferTooSmall
	}

	buf[0] = byte(h.PacketType)<<4 | (h.Flags & 0x0F)
	buf[1] = byte(h.RemainingLength)

	return fixedHeaderSize, nil
}

// Decode reads a single-byte remaining length fixed header from buf.
// Returns the number of bytes read.
func (h *FixedHeader) Decode(buf []byte) (int, error) {
	if len(buf) < fixedHeaderSize {
		return 0, ErrIncompletePacket
	}

	h.PacketType = TypeOf(buf[0])
	h.Flags = buf[0] & 0x0F

	if !h.PacketType.Valid() {
		return 1, ErrInvalidPacketType
	}

	if buf[1]&continuationBit != 0 {
		return 1, ErrMalformedPacket
	}

	h.RemainingLength = int(buf[1])
	return fixedHeaderSize, nil
}

// Size returns the encoded packet size for the header's remaining length.
func (h *FixedHeader) Size() int {
	return fixedHeaderSize + h.RemainingLength
}

// checkPacketSize validates a remaining length against the single-byte limit
// and the destination buffer. No bytes are written on failure.
func checkPacketSize(buf []byte, remaining int) error {
	if remaining > MaxRemainingLength {
		return ErrRemainingLengthTooLarge
	}
	if len(buf) < fixedHeaderSize+remaining {
		return ErrBufferTooSmall
	}
	return nil
}
