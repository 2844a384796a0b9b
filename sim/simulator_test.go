package sim

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"

	"qarith/circuit"
	"qarith/codec"
)

func newSimulator(t *testing.T, mutate func(*Config)) *Simulator {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max qubits", func(c *Config) { c.MaxQubits = 0 }},
		{"max qubits above ceiling", func(c *Config) { c.MaxQubits = MaxSupportedQubits + 1 }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"zero tolerance", func(c *Config) { c.NormTolerance = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(cfg, zerolog.Nop())
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}

	cfg := DefaultConfig()
	cfg.CheckNorm = false
	cfg.NormTolerance = 0
	assert.NoError(t, cfg.Validate(), "tolerance is unused when the check is off")
}

func TestRunAdder(t *testing.T) {
	s := newSimulator(t, nil)

	a, b := codec.PrepareAdderOperands(3, 5)
	c, err := circuit.BuildAdder(a, b)
	require.NoError(t, err)

	state, err := s.Run(c)
	require.NoError(t, err)

	marginal := state.Marginal(c.Measurements())
	assert.True(t, scalar.EqualWithinAbs(marginal[8], 1, 1e-9), "P(8) = %g", marginal[8])
}

func TestRunCapacityExceeded(t *testing.T) {
	s := newSimulator(t, func(c *Config) { c.MaxQubits = 6 })

	c, err := circuit.BuildAdder("0111", "0001")
	require.NoError(t, err)

	_, err = s.Run(c)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.NoError(t, s.Fits(6))
	assert.ErrorIs(t, s.Fits(7), ErrCapacityExceeded)
}

func TestRunNilCircuit(t *testing.T) {
	s := newSimulator(t, nil)
	_, err := s.Run(nil)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestParallelMatchesSequential(t *testing.T) {
	bits, m := codec.PrepareMultiplierOperands(5, 6)
	c, err := circuit.BuildMultiplier(bits, m)
	require.NoError(t, err)

	seq := newSimulator(t, func(c *Config) { c.Workers = 1 })
	par := newSimulator(t, func(c *Config) {
		c.Workers = 4
		c.ParallelMinQubits = 1
	})
	odd := newSimulator(t, func(c *Config) {
		c.Workers = 3
		c.ParallelMinQubits = 1
	})

	want, err := seq.Run(c)
	require.NoError(t, err)

	for name, s := range map[string]*Simulator{"even": par, "odd": odd} {
		got, err := s.Run(c)
		require.NoError(t, err, name)
		require.Len(t, got.Amplitudes, len(want.Amplitudes))
		for i := range want.Amplitudes {
			assert.InDelta(t, real(want.Amplitudes[i]), real(got.Amplitudes[i]), 1e-12, "%s real %d", name, i)
			assert.InDelta(t, imag(want.Amplitudes[i]), imag(got.Amplitudes[i]), 1e-12, "%s imag %d", name, i)
		}
	}
}

func TestCheckNorm(t *testing.T) {
	h := gate(circuit.TypeH, 0, -1, 0)

	drifted := NewStateVector(1)
	drifted.Amplitudes[0] = 1.1

	t.Run("within tolerance", func(t *testing.T) {
		s := newSimulator(t, func(c *Config) { c.StrictNorm = true })
		warned := false
		assert.NoError(t, s.checkNorm(NewStateVector(2), 0, h, &warned))
	})

	t.Run("strict", func(t *testing.T) {
		s := newSimulator(t, func(c *Config) { c.StrictNorm = true })
		warned := false
		assert.ErrorIs(t, s.checkNorm(drifted, 3, h, &warned), ErrNormDrift)
	})

	t.Run("lenient logs once", func(t *testing.T) {
		var buf bytes.Buffer
		s, err := New(DefaultConfig(), zerolog.New(&buf))
		require.NoError(t, err)

		warned := false
		require.NoError(t, s.checkNorm(drifted, 3, h, &warned))
		require.NoError(t, s.checkNorm(drifted, 4, h, &warned))

		assert.True(t, warned)
		assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("State vector norm outside tolerance")))
		assert.Contains(t, buf.String(), `"level":"warn"`)
	})
}
