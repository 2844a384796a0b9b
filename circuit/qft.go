package circuit

import "math"

// QFT appends the quantum Fourier transform over qubits [n, lastBit).
// Qubits are processed from the top of the range down: each gets a Hadamard
// followed by controlled phases of pi/2^d from every qubit below it, where d
// is their distance. No swaps are emitted, so the transformed register is
// bit-reversed relative to the textbook QFT; PhaseAdd and InverseQFT assume
// that order.
func QFT(c *Circuit, n, lastBit int) error {
	if lastBit <= n {
		return nil
	}
	if err := c.checkRange(n, lastBit); err != nil {
		return err
	}

	for last := lastBit - 1; last >= n; last-- {
		if err := c.AddH(last); err != nil {
			return err
		}
		for q := n; q < last; q++ {
			if err := c.AddCP(q, last, math.Ldexp(math.Pi, -(last-q))); err != nil {
				return err
			}
		}
	}
	return nil
}

// InverseQFT appends the inverse of QFT over qubits [n, lastBit).
func InverseQFT(c *Circuit, n, lastBit int) error {
	if lastBit <= n {
		return nil
	}
	if err := c.checkRange(n, lastBit); err != nil {
		return err
	}

	for target := n; target < lastBit; target++ {
		k := target - n
		for control := n; control < target; control++ {
			if err := c.AddCP(control, target, -math.Ldexp(math.Pi, -k)); err != nil {
				return err
			}
			k--
		}
		if err := c.AddH(target); err != nil {
			return err
		}
	}
	return nil
}
