package tui

import (
	"io"
	"os"

	"github.com/aretw0/stratum/pkg/schema"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	ColorSuccess = lipgloss.Color("#22c55e")
	ColorError   = lipgloss.Color("#ef4444")
	ColorMuted   = lipgloss.Color("#6b7280")
)

const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
)

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	mutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
)

func init() {
	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Verdict formats a validation result for the terminal. subject names what was
// checked, e.g. `"42" as INTEGER`.
func Verdict(subject string, res schema.Result) string {
	if res.OK() {
		return successStyle.Render(SymbolSuccess+" valid") + " " + mutedStyle.Render(subject)
	}
	return errorStyle.Render(SymbolError+" "+res.Reason()) + " " + mutedStyle.Render(subject)
}
