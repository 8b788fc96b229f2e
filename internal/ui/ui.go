// Package ui provides small terminal-rendering helpers shared by cmd/isync,
// grounded on the styled-stdout call sites in the teacher's cmd/bd command
// files (turso.go, dashboard.go), which print progress with lipgloss/termenv
// styling alongside plain fmt.Fprintf(os.Stderr, ...) diagnostics.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"os"
)

var (
	accent = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	pass   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warn   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// colorEnabled reports whether stdout is an interactive terminal, gating
// styled output the way the rest of this pack's CLIs do.
func colorEnabled() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && termenv.ColorProfile() != termenv.Ascii
}

// RenderAccent styles s as an informational highlight, e.g. a path or count
// being reported mid-operation.
func RenderAccent(s string) string {
	if !colorEnabled() {
		return s
	}
	return accent.Render(s)
}

// RenderPass styles s to mark a successful outcome.
func RenderPass(s string) string {
	if !colorEnabled() {
		return s
	}
	return pass.Render(s)
}

// RenderWarn styles s to mark a recoverable problem the user should notice.
func RenderWarn(s string) string {
	if !colorEnabled() {
		return s
	}
	return warn.Render(s)
}
