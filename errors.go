package qarith

import (
	"errors"

	"qarith/sim"
)

var (
	// ErrInvalidOperand is returned for negative operands, before any
	// circuit is built.
	ErrInvalidOperand = errors.New("operand must be a non-negative integer")

	ErrCapacityExceeded     = sim.ErrCapacityExceeded
	ErrInvalidConfiguration = sim.ErrInvalidConfiguration
	ErrInvalidShots         = sim.ErrInvalidShots
	ErrNormDrift            = sim.ErrNormDrift
)
