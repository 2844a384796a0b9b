package circuit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qarith/codec"
)

func x(q int) Gate { return Gate{Type: TypeX, Target: q, Control: -1, Slot: -1} }

func TestBuildAdderInitialisation(t *testing.T) {
	a, b := codec.PrepareAdderOperands(3, 5)
	require.Equal(t, "0011", a)
	require.Equal(t, "0101", b)

	c, err := BuildAdder(a, b)
	require.NoError(t, err)

	assert.Equal(t, 8, c.NumQubits())
	assert.Equal(t, 4, c.NumCbits())

	gates := c.Gates()
	assert.Equal(t, []Gate{x(1), x(0), x(6), x(4)}, gates[:4])
	assert.Equal(t, TypeBarrier, gates[4].Type)
}

func TestBuildAdderShape(t *testing.T) {
	for w := 1; w <= 6; w++ {
		a := codec.PadLeft("", w)
		c, err := BuildAdder(a, a)
		require.NoError(t, err)

		counts := c.GateCounts()
		assert.Equal(t, 0, counts[TypeX], "w=%d", w)
		assert.Equal(t, 4, counts[TypeBarrier], "w=%d", w)
		assert.Equal(t, 2*w, counts[TypeH], "w=%d", w)
		assert.Equal(t, w*(w-1)+w*(w+1)/2, counts[TypeCP], "w=%d", w)
		assert.Equal(t, w, counts[TypeMeasure], "w=%d", w)
	}
}

func TestBuildAdderMeasurements(t *testing.T) {
	c, err := BuildAdder("010", "011")
	require.NoError(t, err)

	assert.Equal(t, []int{3, 4, 5}, c.Measurements())

	gates := c.Gates()
	last := gates[len(gates)-3:]
	for k, g := range last {
		assert.Equal(t, TypeMeasure, g.Type)
		assert.Equal(t, 3+k, g.Target)
		assert.Equal(t, k, g.Slot)
	}
}

func TestBuildAdderErrors(t *testing.T) {
	_, err := BuildAdder("01", "011")
	assert.ErrorIs(t, err, ErrWidthMismatch)

	_, err = BuildAdder("0x", "01")
	assert.ErrorIs(t, err, codec.ErrInvalidBitstring)

	_, err = BuildAdder("", "")
	assert.ErrorIs(t, err, codec.ErrInvalidBitstring)
}

func TestBuildMultiplierInitialisation(t *testing.T) {
	bits, m := codec.PrepareMultiplierOperands(3, 4)
	require.Equal(t, "00011", bits)

	c, err := BuildMultiplier(bits, m)
	require.NoError(t, err)

	assert.Equal(t, 10, c.NumQubits())
	assert.Equal(t, 5, c.NumCbits())
	assert.Equal(t, []Gate{x(1), x(0), x(6), x(5)}, c.Gates()[:4])
	assert.Equal(t, []int{5, 6, 7, 8, 9}, c.Measurements())
}

func TestBuildMultiplierShape(t *testing.T) {
	c, err := BuildMultiplier("0011", 2)
	require.NoError(t, err)

	counts := c.GateCounts()
	assert.Equal(t, 3, counts[TypeBarrier])
	assert.Equal(t, 4, counts[TypeX])
	assert.Equal(t, 8, counts[TypeH])
	assert.Equal(t, 4*3+4*5/2, counts[TypeCP])
	assert.Equal(t, 4, counts[TypeMeasure])
}

func TestBuildMultiplierZeroSubtracts(t *testing.T) {
	c, err := BuildMultiplier("011", 0)
	require.NoError(t, err)

	// The first phase-kick gate follows the X gates, a barrier, the QFT and a
	// second barrier.
	gates := c.Gates()
	idx := 4 + 1 + 3 + 3 + 1
	require.Less(t, idx, len(gates))
	assert.Equal(t, cp(0, 3, -math.Pi), gates[idx])
}

func TestBuildMultiplierErrors(t *testing.T) {
	_, err := BuildMultiplier("12", 3)
	assert.ErrorIs(t, err, codec.ErrInvalidBitstring)

	_, err = BuildMultiplier("01", math.MaxUint64)
	assert.ErrorIs(t, err, ErrMultiplierTooLarge)
}
