package mqttlite

import (
	"encoding/binary"
	"errors"
)

// Encoding errors.
var (
	ErrStringTooLong = errors.New("string exceeds maximum length of 65535 bytes")
)

const (
	maxUint16        = 65535
	stringPrefixSize = 2
)

// stringSize returns the encoded size of s including its 2-byte length prefix.
func stringSize(s string) (int, error) {
	if len(s) > maxUint16 {
		return 0, ErrStringTooLong
	}
	return stringPrefixSize + len(s), nil
}

// putString writes s with its 2-byte big-endian length prefix at the start of
// buf. The caller must have sized buf with stringSize.
func putString(buf []byte, s string) int {
	binary.BigEndian.PutUint16(buf, uint16(len(s)))
	return stringPrefixSize + copy(buf[stringPrefixSize:], s)
}

// putUint16 writes v big-endian at the start of buf.
func putUint16(buf []byte, v uint16) int {
	binary.BigEndian.PutUint16(buf, v)
	return 2
}

// readUint16 reads a big-endian uint16 from the start of buf.
func readUint16(buf []byte) (uint16, error) {
	if len(buf) < 2 {
		return 0, ErrMalformedPacket
	}
	return binary.BigEndian.Uint16(buf), nil
}

// readString reads a length-prefixed string from the start of buf, returning
// the string bytes and the number of bytes consumed. The returned slice
// aliases buf.
func readString(buf []byte) ([]byte, int, error) {
	length, err := readUint16(buf)
	if err != nil {
		return nil, 0, err
	}

	end := stringPrefixSize + int(length)
	if len(buf) < end {
		return nil, 0, ErrMalformedPacket
	}

	return buf[stringPrefixSize:end], end, nil
}
