package circuit

// Placement is a gate together with the drawing column it was assigned.
type Placement struct {
	Index int // position in the circuit's gate list
	Gate  Gate
	Step  int
}

// Layout packs a circuit's gates into columns for drawing. A gate goes into
// the first column after the last gate that touches any qubit in its vertical
// span, so gates on disjoint wires share a column while application order is
// preserved on every wire.
type Layout struct {
	NumQubits  int
	NumCbits   int
	NumSteps   int
	Placements []Placement

	byStep [][]int
}

// span returns the wires a gate occupies when drawn. Controlled gates cover
// everything between control and target, measurements run down to the
// classical wires, and barriers cover the whole register.
func span(g Gate, numQubits int) (lo, hi int) {
	switch {
	case g.Type == TypeBarrier:
		return 0, numQubits - 1
	case g.Type == TypeMeasure:
		return g.Target, numQubits - 1
	case g.Control >= 0:
		return min(g.Control, g.Target), max(g.Control, g.Target)
	default:
		return g.Target, g.Target
	}
}

// Layout assigns every gate a column.
func (c *Circuit) Layout() *Layout {
	l := &Layout{
		NumQubits:  c.numQubits,
		NumCbits:   c.numCbits,
		Placements: make([]Placement, 0, len(c.gates)),
	}

	// Next free column on each wire.
	nextFree := make([]int, c.numQubits)

	for i, g := range c.gates {
		lo, hi := span(g, c.numQubits)

		step := 0
		for q := lo; q <= hi; q++ {
			step = max(step, nextFree[q])
		}
		for q := lo; q <= hi; q++ {
			nextFree[q] = step + 1
		}

		l.Placements = append(l.Placements, Placement{Index: i, Gate: g, Step: step})
		if step >= l.NumSteps {
			l.NumSteps = step + 1
		}
	}

	l.byStep = make([][]int, l.NumSteps)
	for i, p := range l.Placements {
		l.byStep[p.Step] = append(l.byStep[p.Step], i)
	}
	return l
}

// At returns the placements in the given column.
func (l *Layout) At(step int) []Placement {
	if step < 0 || step >= l.NumSteps {
		return nil
	}
	out := make([]Placement, 0, len(l.byStep[step]))
	for _, i := range l.byStep[step] {
		out = append(out, l.Placements[i])
	}
	return out
}

// Cell describes what occupies a single cell in the circuit grid.
type Cell struct {
	Gate         *Gate
	IsControl    bool
	IsTarget     bool
	VertAbove    bool
	VertBelow    bool
	PassThrough  bool
	MeasureBelow bool
	IsBarrier    bool
}

// CellAt returns rendering information for the cell at (step, qubit).
func (l *Layout) CellAt(step, qubit int) Cell {
	var cell Cell

	for _, p := range l.At(step) {
		g := p.Gate

		switch {
		case g.Type == TypeBarrier:
			cell.IsBarrier = true
			if cell.Gate == nil {
				cell.Gate = &g
			}
			continue
		case g.Target == qubit:
			cell.Gate = &g
			cell.IsTarget = g.Control >= 0
		case g.Control == qubit:
			cell.Gate = &g
			cell.IsControl = true
		}

		if g.Type == TypeMeasure {
			if qubit > g.Target {
				cell.MeasureBelow = true
			}
			continue
		}

		if g.Control < 0 {
			continue
		}
		minQ, maxQ := min(g.Control, g.Target), max(g.Control, g.Target)
		if qubit >= minQ && qubit <= maxQ {
			if qubit > minQ {
				cell.VertAbove = true
			}
			if qubit < maxQ {
				cell.VertBelow = true
			}
			if qubit > minQ && qubit < maxQ && cell.Gate == nil {
				cell.PassThrough = true
			}
		}
	}

	return cell
}

// MeasureSlotAt returns the classical slot written in the given column, or -1
// if the column holds no measurement.
func (l *Layout) MeasureSlotAt(step int) int {
	for _, p := range l.At(step) {
		if p.Gate.Type == TypeMeasure {
			return p.Gate.Slot
		}
	}
	return -1
}
