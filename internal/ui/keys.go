package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the shell's own bindings. Route and panel chords live in
// the hotkey dispatcher; only their help entries are carried here.
type keyMap struct {
	Quit       key.Binding
	Keys       key.Binding
	CycleTheme key.Binding
	Refresh    key.Binding

	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	Close key.Binding

	// Hotkeys holds the dispatcher's chords for the key overlay.
	Hotkeys []key.Binding
}

// DefaultKeyMap returns the default key bindings. Everything here uses a
// modifier so it never competes with typing in a form.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+q", "Quit"),
		),
		Keys: key.NewBinding(
			key.WithKeys("alt+k", "f12"),
			key.WithHelp("alt+k", "Keyboard shortcuts"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("alt+t"),
			key.WithHelp("alt+t", "Cycle theme"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Reload view"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "Scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "Scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "Page down"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "alt+k", "f12"),
			key.WithHelp("esc", "Close"),
		),
	}
}

// ShortHelp returns key bindings for the status bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Keys, k.CycleTheme, k.Quit}
}

// FullHelp returns key bindings for the shortcut overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	groups := [][]key.Binding{}
	if len(k.Hotkeys) > 0 {
		groups = append(groups, k.Hotkeys)
	}
	return append(groups,
		[]key.Binding{k.Up, k.Down, k.PageUp, k.PageDown},
		[]key.Binding{k.Refresh, k.CycleTheme, k.Keys, k.Quit},
	)
}
