// Package vlq implements base64-VLQ encoding of signed integers, the
// primitive that source-map "mappings" segments are built from.
package vlq

// alphabet is the base64 character set used by the source-map spec.
// It is not standard RFC 4648 base64: no padding, and the mapping from
// 6-bit value to character is fixed by this table, not derived at runtime.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// decodeTable maps an ASCII byte to its 6-bit value, or invalidDigit if
// the byte is not part of the alphabet. Only the low 128 codepoints are
// addressable; anything above is rejected before indexing.
var decodeTable [128]byte

const invalidDigit = 0xFF

func init() {
	for i := range decodeTable {
		decodeTable[i] = invalidDigit
	}
	for i := 0; i < len(alphabet); i++ {
		decodeTable[alphabet[i]] = byte(i)
	}
}
