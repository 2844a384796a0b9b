package sim

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"

	"qarith/circuit"
)

type Complex = complex128

// StateVector holds 2^NumQubits amplitudes. Bit i of an index is qubit i.
type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

func NewStateVector(numQubits int) *StateVector {
	n := 1 << numQubits
	amps := make([]Complex, n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// NewBasisState returns the computational basis state |index>.
func NewBasisState(numQubits, index int) *StateVector {
	s := NewStateVector(numQubits)
	s.Amplitudes[0] = 0
	s.Amplitudes[index] = 1
	return s
}

func (s *StateVector) Clone() *StateVector {
	amps := make([]Complex, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// ApplyGate applies g to the whole state. Barriers and measurements leave the
// state untouched; measurement is deferred to sampling.
func (s *StateVector) ApplyGate(g circuit.Gate) {
	s.applyRange(g, 0, workSize(g, len(s.Amplitudes)))
}

// workSize is the length of the index space a gate's loop runs over. Pair
// gates visit each amplitude pair once, diagonal gates visit every index.
func workSize(g circuit.Gate, n int) int {
	switch g.Type {
	case circuit.TypeX, circuit.TypeH:
		return n / 2
	case circuit.TypeCP:
		return n
	default:
		return 0
	}
}

// applyRange applies g over the work indices [lo,hi). Disjoint ranges touch
// disjoint amplitudes, so they may run concurrently.
func (s *StateVector) applyRange(g circuit.Gate, lo, hi int) {
	switch g.Type {
	case circuit.TypeX:
		s.applyX(g.Target, lo, hi)
	case circuit.TypeH:
		s.applyH(g.Target, lo, hi)
	case circuit.TypeCP:
		s.applyCP(g.Control, g.Target, g.Angle, lo, hi)
	case circuit.TypeBarrier, circuit.TypeMeasure:
	}
}

// pairIndex maps the p-th pair for qubit q to the index with bit q clear.
func pairIndex(p, q int) int {
	low := p & (1<<q - 1)
	return (p>>q)<<(q+1) | low
}

func (s *StateVector) applyX(q, lo, hi int) {
	bit := 1 << q
	for p := lo; p < hi; p++ {
		i := pairIndex(p, q)
		j := i | bit
		s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
	}
}

func (s *StateVector) applyH(q, lo, hi int) {
	hFactor := complex(1.0/math.Sqrt2, 0)
	bit := 1 << q
	for p := lo; p < hi; p++ {
		i := pairIndex(p, q)
		j := i | bit
		a0, a1 := s.Amplitudes[i], s.Amplitudes[j]
		s.Amplitudes[i] = hFactor * (a0 + a1)
		s.Amplitudes[j] = hFactor * (a0 - a1)
	}
}

func (s *StateVector) applyCP(control, target int, theta float64, lo, hi int) {
	mask := 1<<control | 1<<target
	phase := cmplx.Exp(complex(0, theta))
	for i := lo; i < hi; i++ {
		if i&mask == mask {
			s.Amplitudes[i] *= phase
		}
	}
}

// Norm returns the sum of squared amplitude magnitudes.
func (s *StateVector) Norm() float64 {
	total := 0.0
	for _, a := range s.Amplitudes {
		total += real(a)*real(a) + imag(a)*imag(a)
	}
	return total
}

// Probabilities returns |a|^2 for every basis state.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.Amplitudes))
	for i, a := range s.Amplitudes {
		probs[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return probs
}

// Marginal returns the outcome distribution over the measured qubits. Bit k
// of an outcome is qubit measured[k]; a negative entry is an unwritten slot
// and always reads 0. The result is renormalised to sum to 1.
func (s *StateVector) Marginal(measured []int) []float64 {
	out := make([]float64, 1<<len(measured))
	for i, p := range s.Probabilities() {
		if p == 0 {
			continue
		}
		k := 0
		for b, q := range measured {
			if q >= 0 && i>>q&1 == 1 {
				k |= 1 << b
			}
		}
		out[k] += p
	}

	if total := floats.Sum(out); total > 0 {
		floats.Scale(1/total, out)
	}
	return out
}

type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// QubitProbabilities returns the single-qubit marginals, as drawn next to the
// wires in the viewer.
func (s *StateVector) QubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, s.NumQubits)
	for i, prob := range s.Probabilities() {
		for q := 0; q < s.NumQubits; q++ {
			if i&(1<<q) != 0 {
				probs[q].Prob1 += prob
			} else {
				probs[q].Prob0 += prob
			}
		}
	}
	return probs
}
