package form

import "github.com/charmbracelet/lipgloss"

// Styles controls how a form renders.
type Styles struct {
	Title        lipgloss.Style
	Description  lipgloss.Style
	Label        lipgloss.Style
	Value        lipgloss.Style
	Required     lipgloss.Style
	Hint         lipgloss.Style
	Error        lipgloss.Style
	Legend       lipgloss.Style
	Fieldset     lipgloss.Style
	Cursor       lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style
}

// DefaultStyles returns a palette that works on dark and light terminals.
func DefaultStyles() Styles {
	return Styles{
		Title:        lipgloss.NewStyle().Bold(true),
		Description:  lipgloss.NewStyle().Faint(true),
		Label:        lipgloss.NewStyle().Bold(true),
		Value:        lipgloss.NewStyle(),
		Required:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Hint:         lipgloss.NewStyle().Faint(true),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Legend:       lipgloss.NewStyle().Bold(true).Underline(true),
		Fieldset:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		Cursor:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Button:       lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder()),
		ButtonActive: lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.ThickBorder()).Bold(true),
	}
}
