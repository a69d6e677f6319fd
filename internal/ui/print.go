// Package ui holds the terminal presentation helpers shared by the CLI and
// the TUI: themes, status lines, panels and text fitting.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// Printer writes styled output for the CLI.
type Printer struct {
	Out, Err io.Writer
	Theme    Theme
}

// NewPrinter returns a printer on out/err. Nil writers mean stdout/stderr.
func NewPrinter(out, err io.Writer, theme Theme) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if err == nil {
		err = os.Stderr
	}
	return &Printer{Out: out, Err: err, Theme: theme}
}

func (p *Printer) OK(msg string) {
	fmt.Fprintln(p.Out, p.Theme.Success.Render(p.Theme.SymOK+" "+msg))
}

func (p *Printer) Fail(msg string) {
	fmt.Fprintln(p.Err, p.Theme.Error.Render(p.Theme.SymFail+" "+msg))
}

// Line prints msg unstyled.
func (p *Printer) Line(msg string) { fmt.Fprintln(p.Out, msg) }

// Panel draws lines inside the theme's border.
func (p *Printer) Panel(lines []string) {
	fmt.Fprintln(p.Out, Panel(p.Theme, lines))
}

// Panel renders lines framed with t's border.
func Panel(t Theme, lines []string) string {
	box := lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1)
	return box.Render(strings.Join(lines, "\n"))
}

// Fit cuts s to width display cells, ending with an ellipsis when cut.
// Escape sequences do not count toward the width.
func Fit(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	if width == 1 {
		return truncate.String(s, 1)
	}
	return truncate.StringWithTail(s, uint(width), "…")
}

// SingleLine folds newlines so multi-line content fits on one row.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
