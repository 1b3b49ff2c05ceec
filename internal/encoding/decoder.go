package encoding

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrMalformed reports input that Encode could not have produced.
var ErrMalformed = errors.New("malformed ordered-key encoding")

// DecodedLen returns the number of bytes Decode would produce for units.
func DecodedLen(units []uint16) (int, error) {
	if len(units) == 0 {
		return 0, nil
	}
	if len(units) < 2 {
		return 0, fmt.Errorf("%w: lone unit", ErrMalformed)
	}
	trailer := int(units[len(units)-1])
	if trailer < 1 || trailer > unitBits {
		return 0, fmt.Errorf("%w: trailer %d out of range", ErrMalformed, trailer)
	}
	totalBits := unitBits*(len(units)-2) + trailer
	if totalBits%8 != 0 {
		return 0, fmt.Errorf("%w: %d bits is not a whole number of bytes", ErrMalformed, totalBits)
	}
	return totalBits / 8, nil
}

// Decode recovers the byte sequence that Encode packed into units.
// It is only specified for self-produced input; anything else fails
// with ErrMalformed rather than decoding to garbage.
func Decode(units []uint16) ([]byte, error) {
	n, err := DecodedLen(units)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	data := units[:len(units)-1]
	trailer := int(units[len(units)-1])
	out := make([]byte, 0, n)
	var acc uint32
	nbits := 0
	for i, u := range data {
		if u < unitBias || u > unitMask+unitBias {
			return nil, fmt.Errorf("%w: unit %#x at %d", ErrMalformed, u, i)
		}
		chunk := uint32(u - unitBias)
		valid := unitBits
		if i == len(data)-1 {
			// Only the trailer's bit count of the final unit is
			// payload; the padding below it must be zero.
			if chunk&(1<<(unitBits-trailer)-1) != 0 {
				return nil, fmt.Errorf("%w: nonzero padding in final unit", ErrMalformed)
			}
			chunk >>= unitBits - trailer
			valid = trailer
		}
		acc = acc<<valid | chunk
		nbits += valid
		for nbits >= 8 {
			nbits -= 8
			out = append(out, byte(acc>>nbits))
		}
	}
	return out, nil
}

// DecodeBytes parses the big-endian byte serialization produced by
// EncodeToBytes and decodes it.
func DecodeBytes(src []byte) ([]byte, error) {
	if len(src)%2 != 0 {
		return nil, fmt.Errorf("%w: odd byte length %d", ErrMalformed, len(src))
	}
	units := make([]uint16, len(src)/2)
	for i := range units {
		units[i] = binary.BigEndian.Uint16(src[2*i:])
	}
	return Decode(units)
}
