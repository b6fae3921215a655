// Package bignum provides the canonical byte encodings used for arbitrary precision integers.
//
// Signed values use the script-number layout: little-endian magnitude with the sign carried in the
// high bit of the last byte, zero encoded as an empty slice. Fixed-width helpers cover unsigned
// header fields such as the 1024-bit factor.
package bignum

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrNegativeZero is returned when an encoding carries only a sign bit.
	ErrNegativeZero = errors.New("negative zero encoding")
	// ErrOverflow is returned when a value does not fit the requested width.
	ErrOverflow = errors.New("value exceeds width")
	// ErrNegative is returned when a fixed-width unsigned encoding receives a negative value.
	ErrNegative = errors.New("negative value")
)

const signBit = 0x80

// Encode returns the canonical signed encoding of v.
func Encode(v *big.Int) []byte {
	if v == nil || v.Sign() == 0 {
		return []byte{}
	}

	bitLen := v.BitLen()
	size := (bitLen + 7) / 8
	if bitLen%8 == 0 {
		// room for the sign bit
		size++
	}

	out := make([]byte, size)
	magnitude := v.Bytes()
	for i, b := range magnitude {
		out[len(magnitude)-1-i] = b
	}
	if v.Sign() < 0 {
		out[size-1] |= signBit
	}
	return out
}

// Decode parses a signed encoding produced by Encode. Non-minimal encodings are accepted; a lone
// sign bit over a zero magnitude is not.
func Decode(b []byte) (*big.Int, error) {
	if len(b) == 0 {
		return new(big.Int), nil
	}

	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}

	negative := be[0]&signBit != 0
	be[0] &^= signBit

	v := new(big.Int).SetBytes(be)
	if negative {
		if v.Sign() == 0 {
			return nil, ErrNegativeZero
		}
		v.Neg(v)
	}
	return v, nil
}

// ToFixedLE writes v as an unsigned little-endian integer of exactly size bytes.
func ToFixedLE(v *big.Int, size int) ([]byte, error) {
	out := make([]byte, size)
	if v == nil || v.Sign() == 0 {
		return out, nil
	}
	if v.Sign() < 0 {
		return nil, ErrNegative
	}
	if v.BitLen() > size*8 {
		return nil, fmt.Errorf("%w: %d bits into %d bytes", ErrOverflow, v.BitLen(), size)
	}

	be := v.FillBytes(make([]byte, size))
	for i, b := range be {
		out[size-1-i] = b
	}
	return out, nil
}

// FromLE interprets b as an unsigned little-endian integer.
func FromLE(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}
