package domain

import "math"

// Checked arithmetic for bounded counters. Counters never wrap silently;
// hitting a bound is a terminal rejection of the operation.

func CheckedAddU64(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

func CheckedAddU16(a, b uint16) (uint16, error) {
	if a > math.MaxUint16-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

func CheckedSubU16(a, b uint16) (uint16, error) {
	if a < b {
		return 0, ErrUnderflow
	}
	return a - b, nil
}

func CheckedMulU64(a, b uint64) (uint64, error) {
	if a != 0 && b > math.MaxUint64/a {
		return 0, ErrOverflow
	}
	return a * b, nil
}
