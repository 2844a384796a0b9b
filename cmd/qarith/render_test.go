package main

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qarith"
	"qarith/circuit"
)

func TestPadCenter(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"H", 5, "  H  "},
		{"X", 4, " X  "},
		{"π/4", 5, " π/4 "},
		{"toolong", 5, "toolo"},
		{"", 3, "   "},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, padCenter(tc.in, tc.width), "padCenter(%q, %d)", tc.in, tc.width)
	}
}

func TestAngleLabel(t *testing.T) {
	tests := []struct {
		angle float64
		want  string
	}{
		{math.Pi, "π"},
		{math.Pi / 2, "π/2"},
		{3 * math.Pi / 4, "3π/4"},
		{-math.Pi / 8, "-π/8"},
		{math.Ldexp(math.Pi, -10), "P"},
		{0.3, "0.3"},
		{1.2345678, "P"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, angleLabel(tc.angle), "angleLabel(%v)", tc.angle)
	}
}

func TestVisibleLen(t *testing.T) {
	assert.Equal(t, 3, visibleLen("abc"))
	assert.Equal(t, 3, visibleLen("\x1b[1;38;2;255;158;100mabc\x1b[0m"))
	assert.Equal(t, 2, visibleLen("║─"))
	assert.Equal(t, 0, visibleLen(""))
}

func TestSpliceLineAt(t *testing.T) {
	assert.Equal(t, "abXYef", spliceLineAt("abcdef", "XY", 2))
	assert.Equal(t, "ab  XY", spliceLineAt("ab", "XY", 4))
	assert.Equal(t, "\x1b[1ma\x1b[0mbXYe", spliceLineAt("\x1b[1ma\x1b[0mbcde", "XY", 2))
}

func TestOverlayAt(t *testing.T) {
	bg := "......\n......\n......"
	got := overlayAt(bg, "ab\ncd", 1, 1)
	assert.Equal(t, "......\n.ab...\n.cd...", got)

	// Lines past the bottom are dropped.
	got = overlayAt(bg, "ab\ncd", 0, 2)
	assert.Equal(t, "......\n......\nab....", got)
}

func TestBoxEdge(t *testing.T) {
	assert.Equal(t, "┌─────┐", boxEdge("┌", "┐", "┴", false))
	assert.Equal(t, "┌──┴──┐", boxEdge("┌", "┐", "┴", true))
	assert.Equal(t, gateBoxW, visibleLen(boxEdge("└", "┘", "┬", true)))
}

// Every cell of a real circuit renders to exactly cellW columns, highlighted
// or not.
func TestRenderCellWidths(t *testing.T) {
	for _, build := range []func(*qarith.Engine) (*qarith.Run, error){
		func(e *qarith.Engine) (*qarith.Run, error) { return e.AddRun(3, 2) },
		func(e *qarith.Engine) (*qarith.Run, error) { return e.MultiplyRun(2, 3) },
	} {
		run, err := build(qarith.New(qarith.WithSeed(1)))
		require.NoError(t, err)

		l := run.Circuit.Layout()
		for step := range l.NumSteps {
			for qubit := range l.NumQubits {
				for _, hl := range []cellHighlight{hlNone, hlCursor} {
					top, mid, bot := renderCell(l.CellAt(step, qubit), hl)
					for _, line := range []string{top, mid, bot} {
						require.Equal(t, cellW, visibleLen(line), "step %d qubit %d line %q", step, qubit, line)
					}
				}
			}
		}
	}
}

func TestRenderCellKinds(t *testing.T) {
	c, err := circuit.New(3, 1)
	require.NoError(t, err)
	require.NoError(t, c.AddH(0))
	require.NoError(t, c.AddCP(2, 0, math.Pi/2))
	require.NoError(t, c.AddMeasure(1, 0))
	l := c.Layout()

	// H box
	_, mid, _ := renderCell(l.CellAt(0, 0), hlNone)
	assert.Contains(t, mid, "┤  H  ├")

	// CP: control dot below, boxed phase on the target with a connector,
	// pass-through in between.
	_, mid, _ = renderCell(l.CellAt(1, 2), hlNone)
	assert.Contains(t, mid, "●")
	_, mid, bot := renderCell(l.CellAt(1, 0), hlNone)
	assert.Contains(t, mid, "π/2")
	assert.Contains(t, bot, "┬")
	top, mid, _ := renderCell(l.CellAt(1, 1), hlNone)
	assert.Contains(t, mid, "┼")
	assert.Contains(t, top, "│")

	// Measurement box with the classical line below, crossing q[2].
	_, mid, bot = renderCell(l.CellAt(2, 1), hlNone)
	assert.Contains(t, mid, "M")
	assert.Contains(t, bot, "║")
	_, mid, _ = renderCell(l.CellAt(2, 2), hlNone)
	assert.Contains(t, mid, "╫")

	// Empty wire
	_, mid, _ = renderCell(l.CellAt(2, 0), hlNone)
	assert.Equal(t, strings.Repeat("─", cellW), mid)
}

func TestDescribeGate(t *testing.T) {
	assert.Equal(t, "h q[1]", describeGate(&circuit.Gate{Type: circuit.TypeH, Target: 1, Control: -1, Slot: -1}))
	assert.Equal(t, "cp(pi/4) q[0], q[2]", describeGate(&circuit.Gate{Type: circuit.TypeCP, Target: 2, Control: 0, Angle: math.Pi / 4, Slot: -1}))
	assert.Equal(t, "measure q[3] -> c[1]", describeGate(&circuit.Gate{Type: circuit.TypeMeasure, Target: 3, Control: -1, Slot: 1}))
	assert.Equal(t, "barrier", describeGate(&circuit.Gate{Type: circuit.TypeBarrier, Target: -1, Control: -1, Slot: -1}))
}
