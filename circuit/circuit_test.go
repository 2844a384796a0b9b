package circuit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	c, err := New(4, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, c.NumQubits())
	assert.Equal(t, 2, c.NumCbits())
	assert.Equal(t, 0, c.Len())

	_, err = New(0, 0)
	assert.ErrorIs(t, err, ErrInvalidDimension)
	_, err = New(2, -1)
	assert.ErrorIs(t, err, ErrInvalidDimension)
}

func TestAppendValidation(t *testing.T) {
	c, err := New(3, 2)
	require.NoError(t, err)

	tests := []struct {
		name string
		add  func() error
		want error
	}{
		{"x negative", func() error { return c.AddX(-1) }, ErrQubitOutOfRange},
		{"h past end", func() error { return c.AddH(3) }, ErrQubitOutOfRange},
		{"cp bad control", func() error { return c.AddCP(5, 0, math.Pi) }, ErrQubitOutOfRange},
		{"cp bad target", func() error { return c.AddCP(0, 3, math.Pi) }, ErrQubitOutOfRange},
		{"cp same qubit", func() error { return c.AddCP(1, 1, math.Pi) }, ErrControlIsTarget},
		{"measure bad qubit", func() error { return c.AddMeasure(3, 0) }, ErrQubitOutOfRange},
		{"measure bad slot", func() error { return c.AddMeasure(0, 2) }, ErrSlotOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.add(), tt.want)
			assert.Equal(t, 0, c.Len(), "failed append must leave the circuit unchanged")
		})
	}
}

func TestAppendedGates(t *testing.T) {
	c, err := New(3, 1)
	require.NoError(t, err)

	require.NoError(t, c.AddX(0))
	require.NoError(t, c.AddH(1))
	require.NoError(t, c.AddCP(0, 2, math.Pi/2))
	c.AddBarrier()
	require.NoError(t, c.AddMeasure(2, 0))

	want := []Gate{
		{Type: TypeX, Target: 0, Control: -1, Slot: -1},
		{Type: TypeH, Target: 1, Control: -1, Slot: -1},
		{Type: TypeCP, Target: 2, Control: 0, Angle: math.Pi / 2, Slot: -1},
		{Type: TypeBarrier, Target: -1, Control: -1, Slot: -1},
		{Type: TypeMeasure, Target: 2, Control: -1, Slot: 0},
	}
	assert.Equal(t, want, c.Gates())
	assert.Equal(t, []int{2}, c.Measurements())
	assert.Equal(t, map[string]int{TypeX: 1, TypeH: 1, TypeCP: 1, TypeBarrier: 1, TypeMeasure: 1}, c.GateCounts())
}

func TestGatesReturnsCopy(t *testing.T) {
	c, err := New(1, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddX(0))

	gates := c.Gates()
	gates[0].Type = TypeH
	gates[0].Target = 7

	assert.Equal(t, TypeX, c.Gates()[0].Type)
	assert.Equal(t, 0, c.Gates()[0].Target)
}

func TestMeasurementsUnwrittenSlots(t *testing.T) {
	c, err := New(2, 3)
	require.NoError(t, err)
	require.NoError(t, c.AddMeasure(1, 2))

	assert.Equal(t, []int{-1, -1, 1}, c.Measurements())
}

func TestGateQubits(t *testing.T) {
	assert.Equal(t, []int{3}, Gate{Type: TypeH, Target: 3, Control: -1}.Qubits())
	assert.Equal(t, []int{1, 3}, Gate{Type: TypeCP, Target: 3, Control: 1}.Qubits())
	assert.Nil(t, Gate{Type: TypeBarrier, Target: -1, Control: -1}.Qubits())
}
