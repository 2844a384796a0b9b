// Package circuit holds the gate model for the arithmetic circuits and the
// builders that lay out QFT-based addition and multiplication.
package circuit

import (
	"errors"
	"fmt"
)

// Gate types emitted by the builders.
const (
	TypeX       = "X"
	TypeH       = "H"
	TypeCP      = "CP"
	TypeBarrier = "BARRIER"
	TypeMeasure = "MEASURE"
)

var (
	ErrQubitOutOfRange  = errors.New("qubit index out of range")
	ErrSlotOutOfRange   = errors.New("classical slot out of range")
	ErrControlIsTarget  = errors.New("control and target are the same qubit")
	ErrWidthMismatch    = errors.New("operand widths differ")
	ErrInvalidDimension = errors.New("invalid circuit dimension")
)

// Gate represents one operation placed on the circuit.
type Gate struct {
	Type    string
	Target  int     // -1 for barriers
	Control int     // -1 if not a controlled gate
	Angle   float64 // phase for CP
	Slot    int     // classical bit for MEASURE, -1 otherwise
}

// Qubits returns the qubits the gate acts on, control first.
func (g Gate) Qubits() []int {
	switch {
	case g.Type == TypeBarrier:
		return nil
	case g.Control >= 0:
		return []int{g.Control, g.Target}
	default:
		return []int{g.Target}
	}
}

// Circuit is an ordered gate list over a fixed number of qubits and classical
// bits. Every append is validated, so a Circuit is always well formed.
type Circuit struct {
	numQubits int
	numCbits  int
	gates     []Gate
}

// New returns an empty circuit with q qubits and c classical bits.
func New(q, c int) (*Circuit, error) {
	if q < 1 {
		return nil, fmt.Errorf("%w: %d qubits", ErrInvalidDimension, q)
	}
	if c < 0 {
		return nil, fmt.Errorf("%w: %d classical bits", ErrInvalidDimension, c)
	}
	return &Circuit{numQubits: q, numCbits: c}, nil
}

// NumQubits returns the number of qubits.
func (c *Circuit) NumQubits() int { return c.numQubits }

// NumCbits returns the number of classical bits.
func (c *Circuit) NumCbits() int { return c.numCbits }

// Len returns the number of gates, barriers and measurements included.
func (c *Circuit) Len() int { return len(c.gates) }

// Gates returns a copy of the gate list in application order.
func (c *Circuit) Gates() []Gate {
	out := make([]Gate, len(c.gates))
	copy(out, c.gates)
	return out
}

// GateCounts returns how many gates of each type the circuit holds.
func (c *Circuit) GateCounts() map[string]int {
	counts := make(map[string]int)
	for _, g := range c.gates {
		counts[g.Type]++
	}
	return counts
}

// Measurements returns, for each classical slot, the qubit measured into it.
// Slots that are never written hold -1. A later measurement into the same
// slot overrides an earlier one.
func (c *Circuit) Measurements() []int {
	measured := make([]int, c.numCbits)
	for i := range measured {
		measured[i] = -1
	}
	for _, g := range c.gates {
		if g.Type == TypeMeasure {
			measured[g.Slot] = g.Target
		}
	}
	return measured
}

func (c *Circuit) checkQubit(q int) error {
	if q < 0 || q >= c.numQubits {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrQubitOutOfRange, q, c.numQubits)
	}
	return nil
}

// checkRange validates the half-open qubit range [lo,hi). An empty range is
// valid as long as its bounds lie inside the register.
func (c *Circuit) checkRange(lo, hi int) error {
	if lo < 0 || hi > c.numQubits {
		return fmt.Errorf("%w: range [%d,%d) outside [0,%d)", ErrQubitOutOfRange, lo, hi, c.numQubits)
	}
	return nil
}

// AddX appends a bit flip on q.
func (c *Circuit) AddX(q int) error {
	if err := c.checkQubit(q); err != nil {
		return err
	}
	c.gates = append(c.gates, Gate{Type: TypeX, Target: q, Control: -1, Slot: -1})
	return nil
}

// AddH appends a Hadamard on q.
func (c *Circuit) AddH(q int) error {
	if err := c.checkQubit(q); err != nil {
		return err
	}
	c.gates = append(c.gates, Gate{Type: TypeH, Target: q, Control: -1, Slot: -1})
	return nil
}

// AddCP appends a controlled phase of angle radians.
func (c *Circuit) AddCP(control, target int, angle float64) error {
	if err := c.checkQubit(control); err != nil {
		return err
	}
	if err := c.checkQubit(target); err != nil {
		return err
	}
	if control == target {
		return fmt.Errorf("%w: %d", ErrControlIsTarget, target)
	}
	c.gates = append(c.gates, Gate{Type: TypeCP, Target: target, Control: control, Angle: angle, Slot: -1})
	return nil
}

// AddBarrier appends a barrier spanning all qubits.
func (c *Circuit) AddBarrier() {
	c.gates = append(c.gates, Gate{Type: TypeBarrier, Target: -1, Control: -1, Slot: -1})
}

// AddMeasure appends a measurement of q into classical slot.
func (c *Circuit) AddMeasure(q, slot int) error {
	if err := c.checkQubit(q); err != nil {
		return err
	}
	if slot < 0 || slot >= c.numCbits {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrSlotOutOfRange, slot, c.numCbits)
	}
	c.gates = append(c.gates, Gate{Type: TypeMeasure, Target: q, Control: -1, Slot: slot})
	return nil
}
