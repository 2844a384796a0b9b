// Package sim runs arithmetic circuits on an in-process state-vector
// simulator and turns the final state into sampled measurement counts.
package sim

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"qarith/circuit"
)

// MaxSupportedQubits is the hard ceiling on MaxQubits; 2^30 amplitudes take
// 16 GiB.
const MaxSupportedQubits = 30

var (
	ErrCapacityExceeded      = errors.New("circuit exceeds simulator capacity")
	ErrInvalidConfiguration  = errors.New("invalid simulator configuration")
	ErrInvalidShots          = fmt.Errorf("%w: shots must be positive", ErrInvalidConfiguration)
	ErrNormDrift             = errors.New("state vector norm drifted")
	ErrEmptyCounts           = errors.New("no measurement counts to decode")
	errUnmeasuredSampleSpace = fmt.Errorf("%w: no measured qubits", ErrInvalidConfiguration)
)

// Config controls capacity, parallelism and the norm check.
type Config struct {
	MaxQubits         int
	Workers           int     // goroutines per gate; 1 disables fan-out
	ParallelMinQubits int     // smallest register that fans out
	NormTolerance     float64 // allowed |norm-1|
	CheckNorm         bool
	StrictNorm        bool // drift fails the run instead of logging a warning
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		MaxQubits:         24,
		Workers:           runtime.NumCPU(),
		ParallelMinQubits: 14,
		NormTolerance:     1e-6,
		CheckNorm:         true,
	}
}

// Validate checks the configuration bounds.
func (c Config) Validate() error {
	if c.MaxQubits < 1 || c.MaxQubits > MaxSupportedQubits {
		return fmt.Errorf("%w: max qubits %d not in [1,%d]", ErrInvalidConfiguration, c.MaxQubits, MaxSupportedQubits)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfiguration, c.Workers)
	}
	if c.CheckNorm && !(c.NormTolerance > 0) {
		return fmt.Errorf("%w: norm tolerance must be positive, got %g", ErrInvalidConfiguration, c.NormTolerance)
	}
	return nil
}

// Simulator applies circuits to fresh state vectors. It holds no state
// between runs and is safe for concurrent use.
type Simulator struct {
	cfg Config
	log zerolog.Logger
}

// New returns a simulator for cfg.
func New(cfg Config, log zerolog.Logger) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{cfg: cfg, log: log}, nil
}

// Config returns the simulator's configuration.
func (s *Simulator) Config() Config { return s.cfg }

// Fits reports whether a register of numQubits can be simulated.
func (s *Simulator) Fits(numQubits int) error {
	if numQubits > s.cfg.MaxQubits {
		return fmt.Errorf("%w: %d qubits requested, limit is %d", ErrCapacityExceeded, numQubits, s.cfg.MaxQubits)
	}
	return nil
}

// Run applies every gate of c, in order, to |0...0> and returns the final
// state. The capacity check happens before any amplitude is allocated.
func (s *Simulator) Run(c *circuit.Circuit) (*StateVector, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil circuit", ErrInvalidConfiguration)
	}
	numQubits := c.NumQubits()
	if err := s.Fits(numQubits); err != nil {
		return nil, err
	}

	state := NewStateVector(numQubits)
	parallel := s.cfg.Workers > 1 && numQubits >= s.cfg.ParallelMinQubits
	warned := false

	for idx, gate := range c.Gates() {
		if parallel {
			if err := s.applyParallel(state, gate); err != nil {
				return nil, err
			}
		} else {
			state.ApplyGate(gate)
		}

		if !s.cfg.CheckNorm || gate.Type == circuit.TypeBarrier || gate.Type == circuit.TypeMeasure {
			continue
		}
		if err := s.checkNorm(state, idx, gate, &warned); err != nil {
			return nil, err
		}
	}

	return state, nil
}

// checkNorm compares the state's norm against the tolerance. Outside strict
// mode only the first drift of a run is logged.
func (s *Simulator) checkNorm(state *StateVector, idx int, gate circuit.Gate, warned *bool) error {
	drift := math.Abs(state.Norm() - 1)
	if drift <= s.cfg.NormTolerance {
		return nil
	}
	if s.cfg.StrictNorm {
		return fmt.Errorf("%w: |norm-1| = %g after gate %d (%s)", ErrNormDrift, drift, idx, gate.Type)
	}
	if !*warned {
		s.log.Warn().
			Float64("drift", drift).
			Int("gate", idx).
			Str("type", gate.Type).
			Msg("State vector norm outside tolerance")
		*warned = true
	}
	return nil
}

// applyParallel splits one gate's index space into contiguous chunks and
// waits for all of them before returning.
func (s *Simulator) applyParallel(state *StateVector, gate circuit.Gate) error {
	size := workSize(gate, len(state.Amplitudes))
	if size == 0 {
		return nil
	}

	workers := min(s.cfg.Workers, size)
	chunk := (size + workers - 1) / workers

	var g errgroup.Group
	for lo := 0; lo < size; lo += chunk {
		hi := min(lo+chunk, size)
		g.Go(func() error {
			state.applyRange(gate, lo, hi)
			return nil
		})
	}
	return g.Wait()
}
