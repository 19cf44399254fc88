package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/indy-lang/indy/internal/version"
)

var (
	// bannerStyle for the startup banner
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("178"))

	// dimStyle for muted helper text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// errorStyle for fatal CLI errors
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

// FormatBanner renders the interpreter banner
func FormatBanner(w io.Writer) {
	fmt.Fprintln(w, bannerStyle.Render(fmt.Sprintf("--- Indy-lang Interpreter v%s ---", version.Version)))
}

// FormatError renders a fatal CLI error
func FormatError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errorStyle.Render("[Indy ERROR]"), err)
}

// FormatHint renders muted helper text
func FormatHint(w io.Writer, text string) {
	fmt.Fprintln(w, dimStyle.Render(text))
}
