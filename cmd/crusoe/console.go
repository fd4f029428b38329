package main

import (
	"fmt"
	"io"
	"strings"
)

const consoleWidth = 44

// console prints the human-facing startup report. Structured logs go to
// zap; this is only the summary an operator reads once.
type console struct {
	w     io.Writer
	color bool
}

func (c console) paint(code, s string) string {
	if !c.color {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

func (c console) banner(player string) {
	fmt.Fprintf(c.w, "\n  %s  castaway %s\n\n", c.paint("36;1", "crusoe"), c.paint("1", player))
}

func (c console) section(title string) {
	fill := consoleWidth - len(title) - 4
	if fill < 3 {
		fill = 3
	}
	fmt.Fprintf(c.w, "  %s\n", c.paint("33", "── "+title+" "+strings.Repeat("─", fill)))
}

// stat prints a dotted "label ····· n" line.
func (c console) stat(label string, n int) {
	num := fmt.Sprint(n)
	dots := consoleWidth - len(label) - len(num)
	if dots < 3 {
		dots = 3
	}
	fmt.Fprintf(c.w, "  %s %s %s\n", label, c.paint("90", strings.Repeat("·", dots)), c.paint("32", num))
}

func (c console) ok(format string, args ...any) {
	fmt.Fprintf(c.w, "  %s %s\n", c.paint("32", "✓"), fmt.Sprintf(format, args...))
}

func (c console) blank() {
	fmt.Fprintln(c.w)
}
