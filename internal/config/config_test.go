package config

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"QARITH_SHOTS", "QARITH_MAX_QUBITS", "QARITH_SEED", "QARITH_WORKERS",
	"QARITH_PARALLEL_MIN_QUBITS", "QARITH_NORM_TOLERANCE", "QARITH_STRICT_NORM",
	"LOG_LEVEL", "LOG_PRETTY", "LOG_FILE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Shots)
	assert.Equal(t, 24, cfg.MaxQubits)
	assert.Nil(t, cfg.Seed)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, 14, cfg.ParallelMinQubits)
	assert.Equal(t, 1e-6, cfg.NormTolerance)
	assert.False(t, cfg.StrictNorm)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.Empty(t, cfg.LogFile)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("QARITH_SHOTS", "256")
	t.Setenv("QARITH_MAX_QUBITS", "20")
	t.Setenv("QARITH_SEED", "1234")
	t.Setenv("QARITH_WORKERS", "2")
	t.Setenv("QARITH_PARALLEL_MIN_QUBITS", "10")
	t.Setenv("QARITH_NORM_TOLERANCE", "1e-9")
	t.Setenv("QARITH_STRICT_NORM", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "false")
	t.Setenv("LOG_FILE", "/tmp/qarith.log")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.Shots)
	assert.Equal(t, 20, cfg.MaxQubits)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(1234), *cfg.Seed)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 10, cfg.ParallelMinQubits)
	assert.Equal(t, 1e-9, cfg.NormTolerance)
	assert.True(t, cfg.StrictNorm)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
	assert.Equal(t, "/tmp/qarith.log", cfg.LogFile)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("QARITH_SHOTS", "many")
	t.Setenv("QARITH_SEED", "-1")
	t.Setenv("QARITH_STRICT_NORM", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Shots)
	assert.Nil(t, cfg.Seed)
	assert.False(t, cfg.StrictNorm)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{Shots: 1, MaxQubits: 24, Workers: 1, ParallelMinQubits: 14, NormTolerance: 1e-6}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero shots", func(c *Config) { c.Shots = 0 }},
		{"max qubits too small", func(c *Config) { c.MaxQubits = 1 }},
		{"max qubits too large", func(c *Config) { c.MaxQubits = 31 }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"negative parallel threshold", func(c *Config) { c.ParallelMinQubits = -1 }},
		{"zero tolerance", func(c *Config) { c.NormTolerance = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("QARITH_MAX_QUBITS", "64")

	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
