package circuit

import (
	"errors"
	"fmt"
	"math"

	"qarith/codec"
)

// ErrMultiplierTooLarge is returned when a multiplier does not fit the signed
// phase multiplicity.
var ErrMultiplierTooLarge = errors.New("multiplier too large")

// BuildAdder returns a circuit that adds the equal-width MSB-first bitstrings
// a and b. Operand a loads into qubits [0,w) and b into [w,2w), both
// least-significant bit on the lowest qubit. The sum is measured out of the
// upper register, qubit w+k into slot k.
func BuildAdder(a, b string) (*Circuit, error) {
	if err := codec.Validate(a); err != nil {
		return nil, fmt.Errorf("failed to build adder: %w", err)
	}
	if err := codec.Validate(b); err != nil {
		return nil, fmt.Errorf("failed to build adder: %w", err)
	}
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d and %d bits", ErrWidthMismatch, len(a), len(b))
	}

	w := len(a)
	c, err := New(2*w, w)
	if err != nil {
		return nil, err
	}

	if err := load(c, a, 0); err != nil {
		return nil, err
	}
	if err := load(c, b, w); err != nil {
		return nil, err
	}
	if err := kick(c, w, 1); err != nil {
		return nil, err
	}
	c.AddBarrier()
	if err := InverseQFT(c, w, 2*w); err != nil {
		return nil, err
	}
	c.AddBarrier()
	if err := measureUpper(c, w); err != nil {
		return nil, err
	}
	return c, nil
}

// BuildMultiplier returns a circuit that multiplies the MSB-first bitstring a
// by multiplier. The operand is copied into both registers and the upper one
// receives multiplier-1 further phase additions of the lower, so the upper
// register ends at a*multiplier modulo 2^n. A zero multiplier subtracts the
// operand once, which leaves zero.
func BuildMultiplier(a string, multiplier uint64) (*Circuit, error) {
	if err := codec.Validate(a); err != nil {
		return nil, fmt.Errorf("failed to build multiplier: %w", err)
	}
	if multiplier > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d", ErrMultiplierTooLarge, multiplier)
	}

	n := len(a)
	c, err := New(2*n, n)
	if err != nil {
		return nil, err
	}

	if err := load(c, a, 0); err != nil {
		return nil, err
	}
	if err := load(c, a, n); err != nil {
		return nil, err
	}
	if err := kick(c, n, int64(multiplier)-1); err != nil {
		return nil, err
	}
	if err := InverseQFT(c, n, 2*n); err != nil {
		return nil, err
	}
	c.AddBarrier()
	if err := measureUpper(c, n); err != nil {
		return nil, err
	}
	return c, nil
}

// load flips the qubits of the register starting at offset so that it holds
// the MSB-first bitstring bits.
func load(c *Circuit, bits string, offset int) error {
	w := len(bits)
	for i := range w {
		if bits[i] == '1' {
			if err := c.AddX(offset + w - 1 - i); err != nil {
				return err
			}
		}
	}
	return nil
}

// kick moves the upper register into the Fourier basis and applies PhaseAdd.
func kick(c *Circuit, n int, multiplicity int64) error {
	c.AddBarrier()
	if err := QFT(c, n, 2*n); err != nil {
		return err
	}
	c.AddBarrier()
	return PhaseAdd(c, n, multiplicity)
}

func measureUpper(c *Circuit, n int) error {
	for k := range n {
		if err := c.AddMeasure(n+k, k); err != nil {
			return err
		}
	}
	return nil
}
