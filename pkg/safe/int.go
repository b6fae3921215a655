// Package safe provides helpers for safe numeric conversions with overflow checks.
package safe

import (
	"fmt"
	"math"
)

// Integer lists the integer kinds accepted by the conversion helpers.
type Integer interface {
	~int | ~int16 | ~int32 | ~int64 | ~uint | ~uint16 | ~uint32 | ~uint64
}

// split returns the sign and magnitude of v without overflowing on math.MinInt64.
func split[T Integer](v T) (negative bool, magnitude uint64) {
	if v < 0 {
		return true, uint64(-(int64(v) + 1)) + 1
	}
	return false, uint64(v)
}

// Uint16 converts an integer to uint16 with range validation.
func Uint16[T Integer](v T) (uint16, error) {
	if neg, mag := split(v); neg || mag > math.MaxUint16 {
		return 0, fmt.Errorf("value %d out of uint16 range", v)
	}
	return uint16(v), nil
}

// Uint32 converts an integer to uint32 with range validation.
func Uint32[T Integer](v T) (uint32, error) {
	if neg, mag := split(v); neg || mag > math.MaxUint32 {
		return 0, fmt.Errorf("value %d out of uint32 range", v)
	}
	return uint32(v), nil
}

// Uint64 converts an integer to uint64 while guarding against negatives.
func Uint64[T Integer](v T) (uint64, error) {
	if neg, _ := split(v); neg {
		return 0, fmt.Errorf("value %d out of uint64 range", v)
	}
	return uint64(v), nil
}

// Int32 converts an integer to int32 with range validation. Chain heights use this width.
func Int32[T Integer](v T) (int32, error) {
	neg, mag := split(v)
	if (neg && mag > -math.MinInt32) || (!neg && mag > math.MaxInt32) {
		return 0, fmt.Errorf("value %d out of int32 range", v)
	}
	return int32(v), nil
}

// Int64 converts an integer to int64, rejecting unsigned values above math.MaxInt64.
func Int64[T Integer](v T) (int64, error) {
	if neg, mag := split(v); !neg && mag > math.MaxInt64 {
		return 0, fmt.Errorf("value %d out of int64 range", v)
	}
	return int64(v), nil
}
