// Package hash checksums fixture payloads with CRC32-Castagnoli.
package hash

import (
	"encoding/binary"
	"hash/crc32"
)

// TrailerSize is the encoded length of a checksum trailer.
const TrailerSize = 4

// crc32cTable is pre-computed for CRC32-Castagnoli polynomial.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
// Uses hardware acceleration when available (SSE4.2, ARM CRC).
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// AppendTrailer appends the little-endian CRC32C of payload to dst.
func AppendTrailer(dst, payload []byte) []byte {
	return binary.LittleEndian.AppendUint32(dst, CRC32C(payload))
}

// SplitTrailer separates the trailing checksum from b.
// ok is false if b is too short to hold one.
func SplitTrailer(b []byte) (body []byte, sum uint32, ok bool) {
	if len(b) < TrailerSize {
		return nil, 0, false
	}
	cut := len(b) - TrailerSize
	return b[:cut], binary.LittleEndian.Uint32(b[cut:]), true
}
