package qarith

import (
	"math/rand/v2"

	"github.com/rs/zerolog"

	"qarith/internal/config"
)

// Option configures an Engine.
type Option func(*Engine)

// WithShots sets the number of measurement samples per run.
func WithShots(n int) Option {
	return func(e *Engine) { e.shots = n }
}

// WithSource sets the random source used for sampling.
func WithSource(src rand.Source) Option {
	return func(e *Engine) { e.src = src }
}

// WithSeed samples from a PCG source seeded with seed, making runs
// reproducible.
func WithSeed(seed uint64) Option {
	return WithSource(rand.NewPCG(seed, seed))
}

// WithMaxQubits bounds the size of circuits the engine will simulate.
func WithMaxQubits(n int) Option {
	return func(e *Engine) { e.simCfg.MaxQubits = n }
}

// WithWorkers sets how many goroutines apply a single gate.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.simCfg.Workers = n }
}

// WithParallelMinQubits sets the smallest register that is simulated in
// parallel.
func WithParallelMinQubits(n int) Option {
	return func(e *Engine) { e.simCfg.ParallelMinQubits = n }
}

// WithNormTolerance sets the allowed norm drift after each gate.
func WithNormTolerance(tol float64) Option {
	return func(e *Engine) { e.simCfg.NormTolerance = tol }
}

// WithStrictNorm makes norm drift fail the run.
func WithStrictNorm(strict bool) Option {
	return func(e *Engine) { e.simCfg.StrictNorm = strict }
}

// WithKeepState makes every Run carry the final state vector. The viewer uses
// it to draw per-qubit probabilities; leave it off for large circuits.
func WithKeepState(keep bool) Option {
	return func(e *Engine) { e.keepState = keep }
}

// WithLogger sets the engine's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// FromConfig applies every engine setting held in cfg.
func FromConfig(cfg *config.Config) Option {
	return func(e *Engine) {
		e.shots = cfg.Shots
		e.simCfg.MaxQubits = cfg.MaxQubits
		e.simCfg.Workers = cfg.Workers
		e.simCfg.ParallelMinQubits = cfg.ParallelMinQubits
		e.simCfg.NormTolerance = cfg.NormTolerance
		e.simCfg.StrictNorm = cfg.StrictNorm
		if cfg.Seed != nil {
			WithSeed(*cfg.Seed)(e)
		}
	}
}
