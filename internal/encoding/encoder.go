// Package encoding converts arbitrary byte sequences into sequences of
// 16-bit code units whose lexicographic order matches the bytewise order
// of the original input. Collation keys contain every byte value
// including zero, so they cannot be stored directly where the index
// format reserves bytes for termination; the encoded form survives those
// constraints while staying range-query safe.
//
// Unit layout:
//
//	[data unit]... [trailer]
//
// The input is treated as an MSB-first bitstream and packed 15 bits per
// data unit, the final unit zero-padded in its low bits. Data units are
// stored with a +16 bias so that the trailer, which records how many of
// the final data unit's bits are real (1..15), always sorts below any
// data unit that a longer input could place at the same position. Empty
// input encodes to an empty unit sequence, which sorts before everything.
package encoding

import "encoding/binary"

const (
	// unitBits is the number of payload bits carried per code unit.
	unitBits = 15

	// unitBias is added to every data unit so trailers (0..15) sort
	// strictly below all data units.
	unitBias = 16

	unitMask = 1<<unitBits - 1
)

// EncodedLen returns the number of code units Encode produces for an
// input of n bytes.
func EncodedLen(n int) int {
	if n == 0 {
		return 0
	}
	return (8*n+unitBits-1)/unitBits + 1
}

// Encode converts src into code units. Encoded sequences compare
// (unit-wise, lexicographically) exactly as their sources compare
// bytewise, for all inputs including proper prefixes.
func Encode(src []byte) []uint16 {
	if len(src) == 0 {
		return nil
	}

	out := make([]uint16, 0, EncodedLen(len(src)))
	var acc uint32
	nbits := 0
	for _, b := range src {
		acc = acc<<8 | uint32(b)
		nbits += 8
		for nbits >= unitBits {
			nbits -= unitBits
			out = append(out, uint16(acc>>nbits&unitMask)+unitBias)
		}
	}

	trailer := unitBits
	if nbits > 0 {
		// Left-align the leftover bits in a final padded unit.
		out = append(out, uint16(acc<<(unitBits-nbits)&unitMask)+unitBias)
		trailer = nbits
	}
	return append(out, uint16(trailer))
}

// EncodeToBytes encodes src and serializes the units big-endian, so the
// byte form preserves unit order and can be stored as an index term.
func EncodeToBytes(src []byte) []byte {
	units := Encode(src)
	out := make([]byte, 2*len(units))
	for i, u := range units {
		binary.BigEndian.PutUint16(out[2*i:], u)
	}
	return out
}
