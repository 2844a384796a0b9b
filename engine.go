// Package qarith adds and multiplies non-negative integers on a simulated
// quantum computer. Operands are loaded into qubit registers, combined with
// QFT-based phase arithmetic and read back by sampling measurements from the
// final state vector.
package qarith

import (
	"fmt"
	"math/bits"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"qarith/circuit"
	"qarith/codec"
	"qarith/sim"
)

// Engine builds, simulates and decodes arithmetic circuits. It is safe for
// concurrent use; runs share only the random source, which is locked while
// sampling.
type Engine struct {
	shots     int
	simCfg    sim.Config
	log       zerolog.Logger
	keepState bool

	mu  sync.Mutex
	src rand.Source

	sim *sim.Simulator
	err error
}

// New returns an engine with one shot per run, a randomly seeded source and
// the default simulator settings, adjusted by opts. An invalid setting is
// reported by every subsequent run.
func New(opts ...Option) *Engine {
	e := &Engine{
		shots:  1,
		simCfg: sim.DefaultConfig(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.src == nil {
		e.src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	e.sim, e.err = sim.New(e.simCfg, e.log)
	if e.err != nil {
		e.err = fmt.Errorf("failed to create simulator: %w", e.err)
	}
	return e
}

// Shots returns the number of samples taken per run.
func (e *Engine) Shots() int { return e.shots }

// Add returns a+b.
func (e *Engine) Add(a, b int) (int, error) {
	run, err := e.AddRun(a, b)
	if err != nil {
		return 0, err
	}
	return run.Result, nil
}

// Multiply returns a*b.
func (e *Engine) Multiply(a, b int) (int, error) {
	run, err := e.MultiplyRun(a, b)
	if err != nil {
		return 0, err
	}
	return run.Result, nil
}

// AddRun computes a+b and returns the full record of the evaluation.
func (e *Engine) AddRun(a, b int) (*Run, error) {
	if err := e.precheck(a, b); err != nil {
		return nil, err
	}

	// Both registers are one bit wider than the larger operand.
	width := max(bitWidth(a), bitWidth(b)) + 1
	if err := e.sim.Fits(2 * width); err != nil {
		return nil, fmt.Errorf("failed to add %d and %d: %w", a, b, err)
	}

	bitsA, bitsB := codec.PrepareAdderOperands(uint64(a), uint64(b))
	c, err := circuit.BuildAdder(bitsA, bitsB)
	if err != nil {
		return nil, fmt.Errorf("failed to build adder: %w", err)
	}
	return e.execute(OpAdd, a, b, c)
}

// MultiplyRun computes a*b and returns the full record of the evaluation.
func (e *Engine) MultiplyRun(a, b int) (*Run, error) {
	if err := e.precheck(a, b); err != nil {
		return nil, err
	}

	width := bitWidth(a) + bitWidth(b)
	if err := e.sim.Fits(2 * width); err != nil {
		return nil, fmt.Errorf("failed to multiply %d and %d: %w", a, b, err)
	}

	multiplicand, multiplier := codec.PrepareMultiplierOperands(uint64(a), uint64(b))
	c, err := circuit.BuildMultiplier(multiplicand, multiplier)
	if err != nil {
		return nil, fmt.Errorf("failed to build multiplier: %w", err)
	}
	return e.execute(OpMultiply, a, b, c)
}

func (e *Engine) precheck(a, b int) error {
	if e.err != nil {
		return e.err
	}
	if a < 0 || b < 0 {
		return fmt.Errorf("%w: got %d and %d", ErrInvalidOperand, a, b)
	}
	if e.shots <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidShots, e.shots)
	}
	return nil
}

// bitWidth matches the width of codec.IntegerToBitstring, which gives 0 one
// bit.
func bitWidth(n int) int {
	return max(bits.Len(uint(n)), 1)
}

func (e *Engine) execute(op Op, a, b int, c *circuit.Circuit) (*Run, error) {
	start := time.Now()
	id := uuid.New()

	e.log.Debug().
		Str("run_id", id.String()).
		Str("op", string(op)).
		Int("qubits", c.NumQubits()).
		Int("gates", c.Len()).
		Msg("Circuit built")

	state, err := e.sim.Run(c)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate %s circuit: %w", op, err)
	}

	e.mu.Lock()
	counts, err := sim.Sample(state, c.Measurements(), e.shots, e.src)
	e.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to sample %s circuit: %w", op, err)
	}

	bitstring, err := sim.Decode(counts)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s result: %w", op, err)
	}
	value, err := codec.BitstringToInteger(bitstring)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s result: %w", op, err)
	}

	run := &Run{
		ID:        id,
		Op:        op,
		A:         a,
		B:         b,
		Circuit:   c,
		Counts:    counts,
		Bitstring: bitstring,
		Result:    int(value),
		Elapsed:   time.Since(start),
	}
	if e.keepState {
		run.State = state
	}

	e.log.Info().
		Str("run_id", id.String()).
		Str("op", string(op)).
		Int("a", a).
		Int("b", b).
		Int("qubits", c.NumQubits()).
		Int("gates", c.Len()).
		Int("result", run.Result).
		Dur("elapsed", run.Elapsed).
		Msg("Run finished")

	return run, nil
}

var defaultEngine = New()

// Add returns a+b using a single-shot engine with default settings.
func Add(a, b int) (int, error) {
	return defaultEngine.Add(a, b)
}

// Multiply returns a*b using a single-shot engine with default settings.
func Multiply(a, b int) (int, error) {
	return defaultEngine.Multiply(a, b)
}
