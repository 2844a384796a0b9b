package sim

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"qarith/codec"
)

// Counts maps a measured bitstring to the number of shots that produced it.
// Slot C-1 is the leftmost character and slot 0 the rightmost, so a key read
// MSB-first is the integer whose bit k is slot k.
type Counts map[string]int

// Outcome is one entry of a Counts histogram.
type Outcome struct {
	Bitstring   string
	Count       int
	Probability float64
}

// Total returns the number of shots recorded.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Probabilities returns each bitstring's share of the shots.
func (c Counts) Probabilities() map[string]float64 {
	out := make(map[string]float64, len(c))
	for _, o := range c.Sorted() {
		out[o.Bitstring] = o.Probability
	}
	return out
}

// Sorted returns the outcomes by descending count. Equal counts are ordered
// by descending value, matching Decode.
func (c Counts) Sorted() []Outcome {
	outcomes := make([]Outcome, 0, len(c))
	shares := make([]float64, 0, len(c))
	for bits, n := range c {
		outcomes = append(outcomes, Outcome{Bitstring: bits, Count: n})
	}
	slices.SortFunc(outcomes, func(a, b Outcome) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return compareValue(b.Bitstring, a.Bitstring)
	})

	for _, o := range outcomes {
		shares = append(shares, float64(o.Count))
	}
	if total := floats.Sum(shares); total > 0 {
		floats.Scale(1/total, shares)
	}
	for i := range outcomes {
		outcomes[i].Probability = shares[i]
	}
	return outcomes
}

// Sample draws shots outcomes over the measured qubits of sv. measured[k] is
// the qubit read into classical slot k, or -1 for a slot nothing writes. A nil
// src falls back to the global math/rand/v2 source.
func Sample(sv *StateVector, measured []int, shots int, src rand.Source) (Counts, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidShots, shots)
	}
	if sv == nil {
		return nil, fmt.Errorf("%w: nil state vector", ErrInvalidConfiguration)
	}
	if len(measured) == 0 {
		return nil, errUnmeasuredSampleSpace
	}
	for k, q := range measured {
		if q >= sv.NumQubits {
			return nil, fmt.Errorf("%w: slot %d reads qubit %d of %d", ErrInvalidConfiguration, k, q, sv.NumQubits)
		}
	}

	dist := distuv.NewCategorical(sv.Marginal(measured), src)

	counts := make(Counts)
	width := len(measured)
	for range shots {
		outcome := uint64(dist.Rand())
		counts[codec.PadLeft(codec.IntegerToBitstring(outcome), width)]++
	}
	return counts, nil
}
