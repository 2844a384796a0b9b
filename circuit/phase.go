package circuit

import "math"

// PhaseAdd kicks the value held in the lower register [0,n) into the phases
// of the QFT-transformed upper register [n,2n), multiplicity times. After an
// inverse QFT the upper register holds upper + multiplicity*lower modulo 2^n.
// A negative multiplicity subtracts.
func PhaseAdd(c *Circuit, n int, multiplicity int64) error {
	if n <= 0 {
		return nil
	}
	if err := c.checkRange(0, 2*n); err != nil {
		return err
	}

	m := float64(multiplicity)
	for i := range n {
		for control := 0; control <= i; control++ {
			if err := c.AddCP(control, n+i, math.Ldexp(m*math.Pi, -(i-control))); err != nil {
				return err
			}
		}
	}
	return nil
}
