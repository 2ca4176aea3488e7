package mqttlite

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Decoding errors.
var (
	ErrIncompletePacket     = errors.New("incomplete packet")
	ErrMalformedPacket      = errors.New("malformed packet")
	ErrUnexpectedPacketType = errors.New("unexpected packet type")
	ErrTopicTooLong         = errors.New("topic exceeds decode buffer")
	ErrPacketTooLarge       = errors.New("packet exceeds maximum size")
)

const maxVarintBytes = 4

// ReadFrame reads one complete control packet from r: the fixed header byte,
// the remaining length and exactly that many bytes of variable header and
// payload. Partial reads are reassembled and bytes belonging to the next
// packet stay buffered in r.
//
// Packets whose remaining length does not fit the single-byte form are read
// and discarded so the stream stays in sync; ReadFrame then returns an error
// wrapping ErrPacketTooLarge. A clean end of stream before the first byte is
// reported as ErrConnectionClosed.
func ReadFrame(r *bufio.Reader) ([]byte, error) {
	first, err := r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrConnectionClosed
		}
		return nil, err
	}

	remaining, lengthBytes, err := readRemainingLength(r)
	if err != nil {
		return nil, err
	}

	if lengthBytes > 1 {
		if _, err := r.Discard(remaining); err != nil {
			return nil, unexpectedEOF(err)
		}
		return nil, fmt.Errorf("%w: %s with remaining length %d", ErrPacketTooLarge, TypeOf(first), remaining)
	}

	frame := make([]byte, fixedHeaderSize+remaining)
	frame[0] = first
	frame[1] = byte(remaining)

	if _, err := io.ReadFull(r, frame[fixedHeaderSize:]); err != nil {
		return nil, unexpectedEOF(err)
	}

	return frame, nil
}

// readRemainingLength decodes a variable byte integer of at most four bytes.
func readRemainingLength(r io.ByteReader) (int, int, error) {
	var value, multiplier int = 0, 1

	for n := 1; n <= maxVarintBytes; n++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, n - 1, unexpectedEOF(err)
		}

		value += int(b&0x7F) * multiplier
		if b&continuationBit == 0 {
			return value, n, nil
		}
		multiplier *= 128
	}

	return 0, maxVarintBytes, ErrMalformedPacket
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrConnectionClosed, io.ErrUnexpectedEOF)
	}
	return err
}
