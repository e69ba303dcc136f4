// Package convert provides safe integer narrowing for configuration values.
package convert

import (
	"fmt"
	"math"
)

// IntToInt32 converts an int to int32, returning an error if overflow occurs.
func IntToInt32(v int) (int32, error) {
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int32", v)
	}
	return int32(v), nil
}

// IntToInt32Clamped converts an int to int32, clamping to the int32 bounds.
func IntToInt32Clamped(v int) int32 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}

// IntToUint32 converts an int to uint32, returning an error if it is
// negative or too large.
func IntToUint32(v int) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("cannot convert negative int to uint32: %d", v)
	}
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint32", v)
	}
	return uint32(v), nil
}

// IntToUint32Clamped converts an int to uint32, clamping negatives to 0 and
// large values to math.MaxUint32.
func IntToUint32Clamped(v int) uint32 {
	if v < 0 {
		return 0
	}
	if uint64(v) > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
