package repl

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorUser      = lipgloss.Color("#88C0D0")
	colorAssistant = lipgloss.Color("#FF8205")
	colorSubtle    = lipgloss.Color("#666666")
)

// styles renders REPL output for one writer. Writers that are not a
// terminal get plain text.
type styles struct {
	prompt    lipgloss.Style
	assistant lipgloss.Style
	notice    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		prompt:    r.NewStyle().Bold(true).Foreground(colorUser),
		assistant: r.NewStyle().Bold(true).Foreground(colorAssistant),
		notice:    r.NewStyle().Foreground(colorSubtle),
	}
}
