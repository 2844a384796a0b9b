package sim

import (
	"cmp"
	"strings"
)

// Decode returns the most frequent bitstring. Ties go to the bitstring with
// the greater integer value.
func Decode(counts Counts) (string, error) {
	best, bestCount := "", 0
	for bits, n := range counts {
		if n <= 0 {
			continue
		}
		if n > bestCount || (n == bestCount && compareValue(bits, best) > 0) {
			best, bestCount = bits, n
		}
	}
	if bestCount == 0 {
		return "", ErrEmptyCounts
	}
	return best, nil
}

// compareValue orders bitstrings by the integer they encode.
func compareValue(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
