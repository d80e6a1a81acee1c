package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/grocery/internal/model"
)

func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, current.Success.Render(current.SymOK+" "+msg))
}

func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, current.Error.Render(current.SymFail+" "+msg))
}

// Panel frames lines in the theme's border.
func Panel(lines []string) string {
	return lipgloss.NewStyle().
		Border(current.Border).
		BorderForeground(current.BorderColor).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// ProgressBar renders "[████░░░░] done/total".
func ProgressBar(done, total, width int) string {
	if width <= 0 {
		width = 28
	}
	filled := 0
	if total > 0 {
		filled = int(float64(done) / float64(total) * float64(width))
	}
	filled = min(max(filled, 0), width)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf("] %d/%d", done, total)
}

// ItemLine renders one item as "box label", with an optional sync marker.
func ItemLine(it model.Item, status model.Status) string {
	box := current.Muted.Render(current.BoxUnchecked)
	label := it.Label
	if it.Checked {
		box = current.Success.Render(current.BoxChecked)
		label = current.Done.Render(label)
	}
	line := box + " " + label
	switch status {
	case model.StatusPending:
		line += " " + current.Muted.Render(current.SymPending)
	case model.StatusFailed:
		line += " " + current.Error.Render(current.SymFailed)
	}
	return line
}
