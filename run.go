package qarith

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"qarith/circuit"
	"qarith/sim"
)

// Op names an arithmetic operation.
type Op string

const (
	OpAdd      Op = "add"
	OpMultiply Op = "multiply"
)

// Symbol returns the operator used when printing a Run.
func (o Op) Symbol() string {
	if o == OpMultiply {
		return "×"
	}
	return "+"
}

// Run records one evaluation: the circuit that was simulated, the sampled
// counts and the decoded answer.
type Run struct {
	ID        uuid.UUID
	Op        Op
	A, B      int
	Circuit   *circuit.Circuit
	Counts    sim.Counts
	Bitstring string
	Result    int
	Elapsed   time.Duration

	// State is the final state vector, kept only when the engine was built
	// WithKeepState.
	State *sim.StateVector
}

func (r *Run) String() string {
	return fmt.Sprintf("%d %s %d = %d", r.A, r.Op.Symbol(), r.B, r.Result)
}
