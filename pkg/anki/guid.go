package anki

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// base91Table is the alphabet Anki uses for note guids.
var base91Table = []byte(
	"abcdefghijklmnopqrstuvwxyz" +
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
		"0123456789" +
		"!#$%&()*+,-./:;<=>?@[]^_`{|}~")

// guidFor derives a stable note guid from the field values, so importing
// the same deck twice updates notes instead of duplicating them. The
// construction matches genanki: base91 over the first 8 bytes of a sha256
// of the fields joined by "__".
func guidFor(fields ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(fields, "__")))

	var v uint64
	for _, b := range sum[:8] {
		v = v<<8 | uint64(b)
	}

	var reversed []byte
	for v > 0 {
		reversed = append(reversed, base91Table[v%uint64(len(base91Table))])
		v /= uint64(len(base91Table))
	}
	guid := make([]byte, len(reversed))
	for i, b := range reversed {
		guid[len(reversed)-1-i] = b
	}
	return string(guid)
}

// fieldChecksum computes Anki's dedup checksum for a note: the first 8 hex
// digits of the sha1 of the sort field, as an integer.
func fieldChecksum(field string) int64 {
	sum := sha1.Sum([]byte(field))
	v, err := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	if err != nil {
		return 0
	}
	return v
}
