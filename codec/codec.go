// Package codec converts between non-negative integers and the MSB-first
// bitstrings used to initialise and read back arithmetic circuits.
package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidBitstring is returned when a bitstring is empty, longer than 64
// bits, or holds a character other than '0' or '1'.
var ErrInvalidBitstring = errors.New("invalid bitstring")

// IntegerToBitstring returns the minimal-width binary form of n.
// Zero is rendered as "0".
func IntegerToBitstring(n uint64) string {
	return strconv.FormatUint(n, 2)
}

// BitstringToInteger decodes an MSB-first bitstring.
func BitstringToInteger(bits string) (uint64, error) {
	if err := Validate(bits); err != nil {
		return 0, err
	}
	if len(bits) > 64 {
		return 0, fmt.Errorf("%w: %d bits do not fit in 64", ErrInvalidBitstring, len(bits))
	}
	v, err := strconv.ParseUint(bits, 2, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidBitstring, err)
	}
	return v, nil
}

// Validate reports whether bits is a non-empty string of '0' and '1'.
func Validate(bits string) error {
	if bits == "" {
		return fmt.Errorf("%w: empty", ErrInvalidBitstring)
	}
	if i := strings.IndexFunc(bits, func(r rune) bool { return r != '0' && r != '1' }); i >= 0 {
		return fmt.Errorf("%w: %q at position %d", ErrInvalidBitstring, bits[i], i)
	}
	return nil
}

// PadLeft zero-pads bits on the left up to width. Strings already at least
// width long are returned unchanged.
func PadLeft(bits string, width int) string {
	if len(bits) >= width {
		return bits
	}
	return strings.Repeat("0", width-len(bits)) + bits
}

// PrepareAdderOperands encodes a and b at a common width w, then prepends a
// carry bit to each, so both results are w+1 bits wide and the sum cannot
// overflow the register.
func PrepareAdderOperands(a, b uint64) (string, string) {
	binA := IntegerToBitstring(a)
	binB := IntegerToBitstring(b)
	w := max(len(binA), len(binB))
	return "0" + PadLeft(binA, w), "0" + PadLeft(binB, w)
}

// PrepareMultiplierOperands picks the smaller operand as the multiplicand and
// encodes it at width(a)+width(b), which holds any product of the two. The
// larger operand is returned as the scalar multiplier. On a tie a is the
// multiplicand.
func PrepareMultiplierOperands(a, b uint64) (multiplicand string, multiplier uint64) {
	binA := IntegerToBitstring(a)
	binB := IntegerToBitstring(b)
	total := len(binA) + len(binB)

	if b < a {
		return PadLeft(binB, total), a
	}
	return PadLeft(binA, total), b
}
