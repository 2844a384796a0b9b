package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qarith"
	"qarith/circuit"
	"qarith/sim"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusInputA focus = iota
	focusInputB
	focusCircuit
	focusQASM
	focusMenu
)

// tabOrder is the cycle followed by tab.
var tabOrder = []focus{focusInputA, focusInputB, focusCircuit, focusQASM}

var errNoOperand = errors.New("enter two non-negative integers")

// runFinishedMsg carries the outcome of a background run.
type runFinishedMsg struct {
	run *qarith.Run
	err error
}

// Model represents the viewer state.
type Model struct {
	engine *qarith.Engine
	op     qarith.Op

	inputA textinput.Model
	inputB textinput.Model

	run     *qarith.Run
	layout  *circuit.Layout
	probs   []sim.QubitProbability // per-wire marginals of the final state
	runErr  error
	running bool
	spinner spinner.Model

	qasmView viewport.Model
	bar      progress.Model

	cursorQubit int
	cursorStep  int
	width       int
	height      int
	focus       focus
	prevFocus   focus  // restored when the menu closes
	statusMsg   string // transient status message (e.g. save confirmation)

	// Menu state
	menuItem int
}

func newOperandInput(prompt, placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.CharLimit = 9
	ti.Width = 10
	ti.Validate = func(s string) error {
		if s == "" {
			return nil
		}
		if _, err := strconv.Atoi(s); err != nil {
			return fmt.Errorf("%q is not a number", s)
		}
		return nil
	}
	return ti
}

func initialModel(engine *qarith.Engine) Model {
	m := Model{
		engine:   engine,
		op:       qarith.OpAdd,
		inputA:   newOperandInput("A ", "3"),
		inputB:   newOperandInput("B ", "5"),
		spinner:  spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(activeGateStyle)),
		qasmView: viewport.New(40, 10),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		focus:    focusInputA,
	}
	m.inputA.Focus()
	m.qasmView.SetContent(dimStyle.Render("No circuit yet."))
	return m
}

// runCmd evaluates the operation off the update loop.
func runCmd(engine *qarith.Engine, op qarith.Op, a, b int) tea.Cmd {
	return func() tea.Msg {
		var (
			run *qarith.Run
			err error
		)
		if op == qarith.OpMultiply {
			run, err = engine.MultiplyRun(a, b)
		} else {
			run, err = engine.AddRun(a, b)
		}
		return runFinishedMsg{run: run, err: err}
	}
}

// operands parses both inputs.
func (m Model) operands() (int, int, error) {
	a, err := strconv.Atoi(m.inputA.Value())
	if err != nil {
		return 0, 0, errNoOperand
	}
	b, err := strconv.Atoi(m.inputB.Value())
	if err != nil {
		return 0, 0, errNoOperand
	}
	return a, b, nil
}

// startRun kicks off a run for the current inputs unless one is in flight.
func (m *Model) startRun() tea.Cmd {
	if m.running {
		return nil
	}
	a, b, err := m.operands()
	if err != nil {
		m.statusMsg = err.Error()
		return nil
	}
	m.running = true
	m.runErr = nil
	return tea.Batch(m.spinner.Tick, runCmd(m.engine, m.op, a, b))
}

// setFocus moves keyboard focus, keeping the text inputs' cursors in step.
func (m *Model) setFocus(f focus) {
	m.focus = f
	m.inputA.Blur()
	m.inputB.Blur()
	switch f {
	case focusInputA:
		m.inputA.Focus()
	case focusInputB:
		m.inputB.Focus()
	}
}

func (m *Model) cycleFocus(delta int) {
	idx := 0
	for i, f := range tabOrder {
		if f == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(tabOrder)) % len(tabOrder)
	m.setFocus(tabOrder[idx])
}

// saveQASM writes the current circuit to circuit.qasm.
func (m *Model) saveQASM() {
	if m.run == nil {
		m.statusMsg = "Nothing to save yet"
		return
	}
	if err := os.WriteFile("circuit.qasm", []byte(m.run.Circuit.ToQASM()), 0644); err != nil {
		m.statusMsg = fmt.Sprintf("Save error: %v", err)
	} else {
		m.statusMsg = "Saved circuit.qasm"
	}
}

func (m *Model) resize() {
	s := m.sizes()
	m.qasmView.Width = max(s.side-4, 10)
	m.qasmView.Height = max(s.qasmH-2, 2)
	for _, ti := range []*textinput.Model{&m.inputA, &m.inputB} {
		ti.Width = max(s.side/2-8, 4)
	}
}

// digitsOnly reports whether a key press only types digits.
func digitsOnly(msg tea.KeyMsg) bool {
	if msg.Type != tea.KeyRunes {
		return true
	}
	for _, r := range msg.Runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case spinner.TickMsg:
		if m.running {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case runFinishedMsg:
		m.running = false
		if msg.err != nil {
			m.runErr = msg.err
			break
		}
		m.run = msg.run
		m.layout = msg.run.Circuit.Layout()
		m.probs = nil
		if msg.run.State != nil {
			m.probs = msg.run.State.QubitProbabilities()
		}
		m.cursorStep = 0
		m.cursorQubit = 0
		m.qasmView.SetContent(msg.run.Circuit.ToQASM())
		m.qasmView.GotoTop()

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		if m.focus == focusMenu {
			switch key {
			case "esc":
				m.setFocus(m.prevFocus)
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				if m.menuItem < len(opMenu)-1 {
					m.menuItem++
				}
			case "enter":
				m.op = opMenu[m.menuItem].op
				m.setFocus(m.prevFocus)
			}
			break
		}

		// Keys shared by every panel. Inputs only accept digits, so letters
		// are free to act as commands everywhere.
		switch key {
		case "q":
			return m, tea.Quit
		case "o":
			m.prevFocus = m.focus
			m.menuItem = menuIndex(m.op)
			m.setFocus(focusMenu)
			return m, nil
		case "tab":
			m.cycleFocus(1)
			return m, nil
		case "shift+tab":
			m.cycleFocus(-1)
			return m, nil
		case "enter":
			return m, m.startRun()
		case "ctrl+s":
			m.saveQASM()
			return m, nil
		}

		switch m.focus {
		case focusInputA, focusInputB:
			if !digitsOnly(msg) {
				break
			}
			var cmd tea.Cmd
			if m.focus == focusInputA {
				m.inputA, cmd = m.inputA.Update(msg)
			} else {
				m.inputB, cmd = m.inputB.Update(msg)
			}
			cmds = append(cmds, cmd)

		case focusCircuit:
			if m.layout == nil {
				break
			}
			switch key {
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.layout.NumQubits-1 {
					m.cursorQubit++
				}
			case "left", "h":
				if m.cursorStep > 0 {
					m.cursorStep--
				}
			case "right", "l":
				if m.cursorStep < m.layout.NumSteps-1 {
					m.cursorStep++
				}
			case "home":
				m.cursorStep = 0
			case "end":
				m.cursorStep = max(m.layout.NumSteps-1, 0)
			}

		case focusQASM:
			var cmd tea.Cmd
			m.qasmView, cmd = m.qasmView.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// panelSizes holds the outer dimensions shared by Update and View.
type panelSizes struct {
	side     int
	circuitW int
	mainH    int
	inputH   int
	qasmH    int
	countsH  int
	controlH int
}

func (m Model) sizes() panelSizes {
	s := panelSizes{inputH: 5, countsH: 8, controlH: 4}
	s.side = m.width / 3
	s.circuitW = m.width - s.side - 4
	s.mainH = max(m.height-s.controlH-2, 6)
	// Three bordered panels share the side column.
	s.qasmH = max(s.mainH-s.inputH-s.countsH-4, 3)
	return s
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := m.sizes()

	circuitPanel := m.renderCircuitPanel(s.circuitW, s.mainH)
	side := lipgloss.JoinVertical(lipgloss.Left,
		m.renderInputPanel(s.side, s.inputH),
		m.renderQASMPanel(s.side, s.qasmH),
		m.renderCountsPanel(s.side, s.countsH),
	)
	controlsPanel := m.renderControlsPanel(m.width-4, s.controlH-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, side)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	if m.focus == focusMenu {
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	}

	return frame
}
