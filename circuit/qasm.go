package circuit

import (
	"fmt"
	"strings"
)

// ToQASM generates QASM 2.0 output from the circuit. Controlled phases are
// written as cu1, which every qelib1.inc provides.
func (c *Circuit) ToQASM() string {
	numCbits := max(c.numCbits, 1)

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", c.numQubits)
	fmt.Fprintf(&sb, "creg c[%d];\n\n", numCbits)

	for _, gate := range c.gates {
		switch gate.Type {
		case TypeBarrier:
			qubits := make([]string, c.numQubits)
			for q := range c.numQubits {
				qubits[q] = fmt.Sprintf("q[%d]", q)
			}
			fmt.Fprintf(&sb, "barrier %s;\n", strings.Join(qubits, ", "))
		case TypeMeasure:
			fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", gate.Target, gate.Slot)
		case TypeCP:
			fmt.Fprintf(&sb, "cu1(%s) q[%d], q[%d];\n", FormatAngle(gate.Angle), gate.Control, gate.Target)
		default:
			fmt.Fprintf(&sb, "%s q[%d];\n", strings.ToLower(gate.Type), gate.Target)
		}
	}

	return sb.String()
}
