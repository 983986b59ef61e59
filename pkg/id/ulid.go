// Package id generates sortable identifiers for stored records.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// Crockford's Base32 alphabet (no I, L, O, U).
const crockfordBase32 = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// ULIDLength is the length of strings returned by NewULID.
const ULIDLength = 26

// NewULID returns a 26-character ULID: a 48-bit millisecond timestamp
// followed by 80 random bits, both Crockford Base32 encoded.
// ULIDs sort lexicographically by creation time.
func NewULID() string {
	return newULID(time.Now())
}

func newULID(now time.Time) string {
	var raw [16]byte
	binary.BigEndian.PutUint16(raw[0:2], uint16(uint64(now.UnixMilli())>>32))
	binary.BigEndian.PutUint32(raw[2:6], uint32(now.UnixMilli()))
	if _, err := rand.Read(raw[6:]); err != nil {
		binary.BigEndian.PutUint64(raw[6:14], uint64(now.UnixNano()))
	}
	return encode(raw)
}

// encode writes 128 bits as 26 base32 characters, most significant first.
// The leading character carries only the top 3 bits.
func encode(raw [16]byte) string {
	hi := binary.BigEndian.Uint64(raw[0:8])
	lo := binary.BigEndian.Uint64(raw[8:16])

	var out [ULIDLength]byte
	for i := ULIDLength - 1; i >= 0; i-- {
		out[i] = crockfordBase32[lo&0x1F]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}
