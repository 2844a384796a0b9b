package main

import (
	"fmt"
	"strings"

	"qarith"
)

// menuItem represents a single operation choice in the menu.
type menuItem struct {
	name   string
	op     qarith.Op
	symbol string
	hint   string
}

// opMenu lists the operations the viewer can run.
var opMenu = []menuItem{
	{name: "Addition", op: qarith.OpAdd, symbol: "+", hint: "QFT adder"},
	{name: "Multiplication", op: qarith.OpMultiply, symbol: "×", hint: "repeated addition"},
}

// menuIndex returns the menu position of op.
func menuIndex(op qarith.Op) int {
	for i, item := range opMenu {
		if item.op == op {
			return i
		}
	}
	return 0
}

// renderMenu renders the floating operation-picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Operation"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 34)))
	sb.WriteString("\n")

	for i, item := range opMenu {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-16s", item.name)))
			sb.WriteString(gateStyle.Render(item.symbol))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-16s", item.name)))
			sb.WriteString(dimStyle.Render(item.symbol))
		}
		sb.WriteString(dimStyle.Render(fmt.Sprintf(" (%s)", item.hint)))
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
