package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme bundles palette + symbols + box borders.
// All renderers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done                                lipgloss.Style
	Border                                        lipgloss.Border
	BorderColor                                   lipgloss.Color
	BoxUnchecked, BoxChecked                      string
	SymOK, SymFail                                string
	SymPending, SymFailed                         string // per-item sync markers
}

// Theme names accepted by SetTheme.
const (
	ThemeClassic = "classic"
	ThemeMono    = "mono"
)

var current = classic()

func classic() Theme {
	return Theme{
		Title:        lipgloss.NewStyle().Bold(true),
		Muted:        lipgloss.NewStyle().Faint(true),
		Accent:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Selected:     lipgloss.NewStyle().Bold(true).Reverse(true),
		Done:         lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Border:       lipgloss.RoundedBorder(),
		BorderColor:  lipgloss.Color("8"),
		BoxUnchecked: "☐", BoxChecked: "☑",
		SymOK: "✔", SymFail: "✖",
		SymPending: "…", SymFailed: "!",
	}
}

func mono() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Title: plain, Muted: plain, Accent: plain, Success: plain, Error: plain, Pending: plain,
		Selected: plain, Done: plain,
		Border:       lipgloss.NormalBorder(),
		BoxUnchecked: "[ ]", BoxChecked: "[x]",
		SymOK: "ok", SymFail: "error:",
		SymPending: "~", SymFailed: "!",
	}
}

// SetTheme switches between "classic" (default) and "mono". Mono also turns
// colour off entirely.
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case ThemeMono:
		DisableColor()
		current = mono()
	default:
		current = classic()
	}
}

// DisableColor forces plain ASCII output regardless of the terminal.
func DisableColor() { lipgloss.SetColorProfile(termenv.Ascii) }

// Expose what renderers need
func Current() Theme { return current }
