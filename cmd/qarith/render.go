package main

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"qarith/circuit"
	"qarith/sim"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width, counting runes so that
// labels like "π/4" line up.
func padCenter(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width])
	}
	total := width - len(runes)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// gateDisplayName returns the label drawn inside a gate box.
func gateDisplayName(g *circuit.Gate) string {
	switch g.Type {
	case circuit.TypeMeasure:
		return "M"
	case circuit.TypeCP:
		return angleLabel(g.Angle)
	default:
		return g.Type
	}
}

// angleLabel shortens a phase to fit a gate box, falling back to "P".
func angleLabel(angle float64) string {
	label := circuit.FormatAngle(angle)
	label = strings.ReplaceAll(label, "*pi", "π")
	label = strings.ReplaceAll(label, "pi", "π")
	if utf8.RuneCountInString(label) > gateNameW {
		return "P"
	}
	return label
}

// ──────────────────────────── Cell rendering ────────────────────────────

type cellHighlight int

const (
	hlNone cellHighlight = iota
	hlCursor
)

// boxEdge draws the top or bottom edge of a gate box, with a connector where
// a control line meets it.
func boxEdge(left, right, connector string, connected bool) string {
	if !connected {
		return left + strings.Repeat("─", gateNameW) + right
	}
	half := gateNameW / 2
	return left + strings.Repeat("─", half) + connector + strings.Repeat("─", gateNameW-half-1) + right
}

// renderCell returns 3 lines (top, mid, bot) for a single cell.
// Each line is exactly cellW visual characters wide.
func renderCell(info circuit.Cell, hl cellHighlight) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)
	dblVertRow := strings.Repeat(" ", halfW) + cbitConnectorStyle.Render("║") + strings.Repeat(" ", cellW-halfW-1)

	// ── Highlighted cell ──
	if hl == hlCursor {
		bdr := cursorBoxStyle
		innerW := cellW - 2
		dashL := (innerW - 1) / 2
		dashR := innerW - dashL - 1

		if info.IsBarrier {
			top = vertRow
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + "│" + strings.Repeat("─", dashR) + bdr.Render("║")
			bot = vertRow
			return
		}

		top = bdr.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = bdr.Render("╚" + strings.Repeat("═", innerW) + "╝")

		switch {
		case info.IsControl:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render("●") + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.Gate != nil:
			name := padCenter(gateDisplayName(info.Gate), gateNameW)
			mid = bdr.Render("║") + "─┤" + gateStyle.Render(name) + "├─" + bdr.Render("║")
		case info.PassThrough:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.MeasureBelow:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + cbitConnectorStyle.Render("╫") + strings.Repeat("─", dashR) + bdr.Render("║")
		default:
			mid = bdr.Render("║") + strings.Repeat("─", innerW) + bdr.Render("║")
		}
		return
	}

	// ── Normal (non-highlighted) cells ──
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1
	margin := (cellW - gateBoxW) / 2
	rightMargin := cellW - margin - gateBoxW

	switch {
	case info.IsBarrier:
		top = vertRow
		mid = strings.Repeat("─", dashL) + "│" + strings.Repeat("─", dashR)
		bot = vertRow

	case info.IsControl:
		top = emptyRow
		if info.VertAbove {
			top = vertRow
		}
		mid = strings.Repeat("─", dashL) + gateStyle.Render("●") + strings.Repeat("─", dashR)
		bot = emptyRow
		if info.VertBelow {
			bot = vertRow
		}

	case info.Gate != nil && info.Gate.Type == circuit.TypeMeasure:
		// The classical line always leaves a measurement downwards.
		top = strings.Repeat(" ", margin) + gateStyle.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+padCenter("M", gateNameW)+"├") + strings.Repeat("─", rightMargin)
		bot = dblVertRow

	case info.Gate != nil:
		name := padCenter(gateDisplayName(info.Gate), gateNameW)
		top = strings.Repeat(" ", margin) + gateStyle.Render(boxEdge("┌", "┐", "┴", false)) + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + gateStyle.Render(boxEdge("└", "┘", "┬", false)) + strings.Repeat(" ", rightMargin)
		if info.VertAbove {
			top = spliceLineAt(vertRow, gateStyle.Render(boxEdge("┌", "┐", "┴", true)), margin)
		}
		if info.VertBelow {
			bot = spliceLineAt(vertRow, gateStyle.Render(boxEdge("└", "┘", "┬", true)), margin)
		}

	case info.PassThrough:
		top = vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		bot = vertRow

	case info.MeasureBelow:
		// No gate here, but a measurement connection passes through vertically
		top = dblVertRow
		mid = strings.Repeat("─", dashL) + cbitConnectorStyle.Render("╫") + strings.Repeat("─", dashR)
		bot = dblVertRow

	default:
		// Empty wire
		top = emptyRow
		if info.VertAbove {
			top = vertRow
		}
		mid = strings.Repeat("─", cellW)
		bot = emptyRow
		if info.VertBelow {
			bot = vertRow
		}
	}

	return
}

// ──────────────────────────── Panel rendering ────────────────────────────

// qubitLabel renders the wire label, with P(1) when the final state is known.
func qubitLabel(qubit int, probs []sim.QubitProbability) string {
	label := qubitLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("q[%d]", qubit)))
	if qubit < len(probs) {
		label += dimStyle.Render(fmt.Sprintf("%4.2f", probs[qubit].Prob1))
	} else {
		label += strings.Repeat(" ", 4)
	}
	return label + " ──"
}

// visibleWindow returns the first index of a window of size n that keeps
// cursor in view.
func visibleWindow(cursor, n int) int {
	if cursor >= n {
		return cursor - n + 1
	}
	return 0
}

// renderCircuitPanel renders the circuit grid panel.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	title := "Quantum Circuit"
	if m.run != nil {
		title = fmt.Sprintf("Quantum Circuit  %s", m.run)
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")

	if m.layout == nil {
		if m.running {
			fmt.Fprintf(&sb, "  %s Simulating...\n", m.spinner.View())
		} else {
			sb.WriteString(dimStyle.Render("  Enter two operands and press Enter."))
			sb.WriteString("\n")
		}
		return circuitStyle.Width(width).Height(height).Render(sb.String())
	}

	l := m.layout

	// How many steps and wires fit
	availWidth := width - labelVisualW - 4
	maxSteps := max(availWidth/cellW, 1)
	maxRows := max((height-12)/3, 1)

	startStep := visibleWindow(m.cursorStep, maxSteps)
	endStep := min(startStep+maxSteps, l.NumSteps)
	startQubit := visibleWindow(m.cursorQubit, maxRows)
	endQubit := min(startQubit+maxRows, l.NumQubits)

	if startStep > 0 || endStep < l.NumSteps {
		fmt.Fprintf(&sb, "  showing steps %d–%d of %d\n", startStep, endStep-1, l.NumSteps)
	}

	// Step number header
	header := strings.Repeat(" ", labelVisualW)
	for step := startStep; step < endStep; step++ {
		header += dimStyle.Render(padCenter(fmt.Sprintf("%d", step), cellW))
	}
	sb.WriteString(header + "\n")

	// Render each qubit as 3 lines
	for qubit := startQubit; qubit < endQubit; qubit++ {
		topLine := strings.Repeat(" ", labelVisualW)
		midLine := qubitLabel(qubit, m.probs)
		botLine := strings.Repeat(" ", labelVisualW)

		for step := startStep; step < endStep; step++ {
			hl := hlNone
			if step == m.cursorStep && qubit == m.cursorQubit && m.focus == focusCircuit {
				hl = hlCursor
			}

			top, mid, bot := renderCell(l.CellAt(step, qubit), hl)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}
	if endQubit < l.NumQubits {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  ▼ %d more qubits", l.NumQubits-endQubit)))
		sb.WriteString("\n")
	}

	// ── Classical bit wire (single line) ──
	if l.NumCbits > 0 {
		// Separator line between quantum and classical wires
		sepLine := strings.Repeat(" ", labelVisualW)
		halfW := cellW / 2
		for step := startStep; step < endStep; step++ {
			if l.MeasureSlotAt(step) >= 0 {
				sepLine += strings.Repeat(" ", halfW) + cbitConnectorStyle.Render("║") + strings.Repeat(" ", cellW-halfW-1)
			} else {
				sepLine += strings.Repeat(" ", cellW)
			}
		}
		sb.WriteString(sepLine + "\n")

		// Single classical wire showing the slot each measurement lands in
		label := fmt.Sprintf("c%d", l.NumCbits)
		cbitLine := cbitLabelStyle.Render(fmt.Sprintf("%-*s", labelVisualW-2, label)) + cbitWireStyle.Render("══")

		for step := startStep; step < endStep; step++ {
			slot := l.MeasureSlotAt(step)
			if slot >= 0 {
				bitLabel := fmt.Sprintf("%d", slot)
				dashL := (cellW - 1) / 2
				dashR := max(cellW-dashL-1-len(bitLabel), 0)
				cbitLine += cbitWireStyle.Render(strings.Repeat("═", dashL)) +
					cbitConnectorStyle.Render("╩"+bitLabel) +
					cbitWireStyle.Render(strings.Repeat("═", dashR))
			} else {
				cbitLine += cbitWireStyle.Render(strings.Repeat("═", cellW))
			}
		}
		sb.WriteString(cbitLine + "\n")
	}

	// Status line
	fmt.Fprintf(&sb, "\n  Position: Step %d, Qubit %d", m.cursorStep, m.cursorQubit)
	if cell := l.CellAt(m.cursorStep, m.cursorQubit); cell.Gate != nil {
		fmt.Fprintf(&sb, "  │  %s", activeGateStyle.Render(describeGate(cell.Gate)))
	}
	if m.statusMsg != "" {
		fmt.Fprintf(&sb, "  │  %s", activeGateStyle.Render(m.statusMsg))
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// describeGate renders a gate the way it appears in QASM.
func describeGate(g *circuit.Gate) string {
	switch g.Type {
	case circuit.TypeBarrier:
		return "barrier"
	case circuit.TypeMeasure:
		return fmt.Sprintf("measure q[%d] -> c[%d]", g.Target, g.Slot)
	case circuit.TypeCP:
		return fmt.Sprintf("cp(%s) q[%d], q[%d]", circuit.FormatAngle(g.Angle), g.Control, g.Target)
	default:
		return fmt.Sprintf("%s q[%d]", strings.ToLower(g.Type), g.Target)
	}
}

// renderInputPanel renders the operand inputs and the latest answer.
func (m Model) renderInputPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Operands"))
	sb.WriteString("\n")

	symbol := opMenu[menuIndex(m.op)].symbol
	fmt.Fprintf(&sb, "%s  %s  %s\n", m.inputA.View(), gateStyle.Render(symbol), m.inputB.View())

	switch {
	case m.running:
		fmt.Fprintf(&sb, "%s Simulating...", m.spinner.View())
	case m.runErr != nil:
		sb.WriteString(errorStyle.Render(m.runErr.Error()))
	case m.run != nil:
		sb.WriteString(resultStyle.Render(m.run.String()))
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  %d qubits, %d gates, %s",
			m.run.Circuit.NumQubits(), m.run.Circuit.Len(), m.run.Elapsed.Round(time.Microsecond))))
	default:
		sb.WriteString(dimStyle.Render("o Operation  ⏎ Run"))
	}

	return inputStyle.Width(width).Height(height).Render(sb.String())
}

// renderQASMPanel renders the read-only QASM view.
func (m Model) renderQASMPanel(width, height int) string {
	var sb strings.Builder

	title := "QASM"
	if m.focus == focusQASM {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(m.qasmView.View())

	return qasmStyle.Width(width).Height(height).Render(sb.String())
}

// renderCountsPanel renders the measurement histogram, most frequent first.
func (m Model) renderCountsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Counts"))

	if m.run == nil {
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render("No samples yet."))
		return countsStyle.Width(width).Height(height).Render(sb.String())
	}

	fmt.Fprintf(&sb, "%s\n", dimStyle.Render(fmt.Sprintf("  %d shots", m.run.Counts.Total())))

	outcomes := m.run.Counts.Sorted()
	rows := max(height-2, 1)
	for i, o := range outcomes {
		if i == rows {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("… %d more", len(outcomes)-rows)))
			break
		}
		bar := m.bar
		bar.Width = max(width-len(o.Bitstring)-12, 4)
		line := o.Bitstring + " " + bar.ViewAs(o.Probability) + fmt.Sprintf(" %5d", o.Count)
		if o.Bitstring == m.run.Bitstring {
			line = activeGateStyle.Render(o.Bitstring) + line[len(o.Bitstring):]
		}
		sb.WriteString(line + "\n")
	}

	return countsStyle.Width(width).Height(height).Render(strings.TrimRight(sb.String(), "\n"))
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Navigate: "))
	sb.WriteString("Tab Switch panel  ↑↓/jk Move qubit  ←→/hl Move step  Home/End Jump\n")

	sb.WriteString(activeGateStyle.Render("Actions:  "))
	sb.WriteString("0-9 Operand  o Operation  ⏎ Run  ^S Save  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at position (x, y).
// It handles ANSI escape sequences by tracking visible column positions.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	ovLines := strings.Split(overlay, "\n")

	for i, ovLine := range ovLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLines[bgIdx] = spliceLineAt(bgLines[bgIdx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// isEscEnd reports whether r terminates an ANSI escape sequence.
func isEscEnd(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// spliceLineAt replaces visible columns starting at position x in bgLine
// with overlay content, keeping the background's escape sequences intact.
func spliceLineAt(bgLine, overlay string, x int) string {
	runes := []rune(bgLine)
	ovWidth := visibleLen(overlay)

	var prefix, suffix strings.Builder

	col, i := 0, 0

	// Collect prefix: everything up to visible column x
	for i < len(runes) && col < x {
		if runes[i] == '\x1b' {
			prefix.WriteRune(runes[i])
			i++
			for i < len(runes) {
				prefix.WriteRune(runes[i])
				i++
				if isEscEnd(runes[i-1]) {
					break
				}
			}
			continue
		}
		prefix.WriteRune(runes[i])
		col++
		i++
	}

	// Pad prefix if bg line is shorter than x
	for col < x {
		prefix.WriteRune(' ')
		col++
	}

	// Skip over ovWidth visible columns in the background
	for skipped := 0; i < len(runes) && skipped < ovWidth; {
		if runes[i] == '\x1b' {
			i++
			for i < len(runes) {
				i++
				if isEscEnd(runes[i-1]) {
					break
				}
			}
			continue
		}
		skipped++
		i++
	}

	suffix.WriteString(string(runes[i:]))

	return prefix.String() + overlay + suffix.String()
}

// visibleLen returns the number of visible (non-ANSI-escape) characters in a string.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if isEscEnd(r) {
				inEsc = false
			}
			continue
		}
		n++
	}
	return n
}
