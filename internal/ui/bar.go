package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// barPainter draws header and status bar segments on the bar color. Words and
// the gaps between them are painted one by one so an ANSI reset inside a
// segment never leaves an unpainted cell.
type barPainter struct {
	fill lipgloss.Style
}

func newBarPainter(color string) barPainter {
	return barPainter{fill: lipgloss.NewStyle().Background(lipgloss.Color(color))}
}

// paint renders text in style on the bar color.
func (p barPainter) paint(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	styled := style.Background(p.fill.GetBackground())
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = styled.Render(w)
		}
	}
	return strings.Join(words, p.fill.Render(" "))
}

// gap returns n painted spaces.
func (p barPainter) gap(n int) string {
	if n <= 0 {
		return ""
	}
	return p.fill.Render(strings.Repeat(" ", n))
}

// join drops empty segments and separates the rest with painted spaces.
func (p barPainter) join(segments []string, spacing int) string {
	kept := segments[:0:0]
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, p.gap(spacing))
}
