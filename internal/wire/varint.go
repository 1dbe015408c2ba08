package wire

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// appendUvarint appends v using the standard little-endian base-128
// continuation encoding.
func appendUvarint(dst []byte, v uint32) []byte {
	return binary.AppendUvarint(dst, uint64(v))
}

// readUvarint decodes one varint starting at off and returns the value and
// the offset just past it.
func readUvarint(data []byte, off int) (uint32, int, error) {
	v, n := binary.Uvarint(data[off:])
	if n <= 0 {
		return 0, 0, fmt.Errorf("wire: truncated varint at offset %d", off)
	}
	if v > 0xFFFFFFFF {
		return 0, 0, fmt.Errorf("wire: varint overflows uint32 at offset %d", off)
	}
	return uint32(v), off + n, nil
}

// uvarintLen returns the encoded byte length of v without encoding it.
func uvarintLen(v uint32) int {
	return (bits.Len32(v|1) + 6) / 7
}
