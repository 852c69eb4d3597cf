// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package util

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// supportsColor checks if w is a terminal that understands ANSI styling
func supportsColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !term.IsTerminal(int(f.Fd())) { // #nosec G115 - file descriptors are small integers
		return false
	}
	termEnv := os.Getenv("TERM")
	return termEnv != "" && termEnv != "dumb"
}

// Printer writes command output, styled when the destination is a terminal.
type Printer struct {
	w      io.Writer
	styled bool
}

// NewPrinter returns a Printer for w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, styled: supportsColor(w)}
}

func (p *Printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

// Title prints a heading line.
func (p *Printer) Title(s string) {
	_, _ = fmt.Fprintln(p.w, p.render(titleStyle, s))
}

// Field prints one aligned "label: value" line.
func (p *Printer) Field(label string, value any) {
	_, _ = fmt.Fprintf(p.w, "  %s %s\n",
		p.render(labelStyle, fmt.Sprintf("%-15s", label+":")),
		p.render(valueStyle, fmt.Sprint(value)))
}

// Success prints a confirmation line.
func (p *Printer) Success(format string, args ...any) {
	_, _ = fmt.Fprintln(p.w, p.render(successStyle, fmt.Sprintf(format, args...)))
}

// Error prints err.
func (p *Printer) Error(err error) {
	_, _ = fmt.Fprintln(p.w, p.render(errorStyle, "Error: ")+err.Error())
}
