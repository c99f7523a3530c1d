// Package hotkeys routes key chords to navigation, toggle and development
// actions.
package hotkeys

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
)

// Kind selects how a hotkey is dispatched.
type Kind int

const (
	KindNavigation Kind = iota
	KindDev
	KindToggle
)

func (k Kind) String() string {
	switch k {
	case KindDev:
		return "dev"
	case KindToggle:
		return "toggle"
	default:
		return "navigation"
	}
}

// Action is the work behind a dev or toggle hotkey.
type Action func(ctx context.Context) error

// Hotkey is one dispatchable action. Build it with Navigation, Dev or Toggle.
type Hotkey struct {
	Kind  Kind
	Route string
	Label string
	// Action is optional for dev hotkeys and required for toggles.
	Action Action
}

// Navigation moves to route, or cycles its tabs when it is already showing.
func Navigation(route, label string) Hotkey {
	return Hotkey{Kind: KindNavigation, Route: route, Label: label}
}

// Dev runs action and then moves to route. It only fires in dev mode.
func Dev(route, label string, action Action) Hotkey {
	return Hotkey{Kind: KindDev, Route: route, Label: label, Action: action}
}

// Toggle runs action regardless of the current route.
func Toggle(label string, action func() error) Hotkey {
	return Hotkey{
		Kind:  KindToggle,
		Label: label,
		Action: func(context.Context) error {
			return action()
		},
	}
}

// Chord is a key combination as reported by tea.KeyMsg.String. Reverse marks
// the alternate chord that cycles tabs backwards.
type Chord struct {
	Key     string
	Reverse bool
}

// Binding attaches chords to a hotkey.
type Binding struct {
	Hotkey Hotkey
	Chords []Chord
}

// Bind builds a binding from a primary chord and optional reverse chords.
func Bind(hk Hotkey, primary string, reverse ...string) Binding {
	b := Binding{Hotkey: hk, Chords: []Chord{{Key: primary}}}
	for _, k := range reverse {
		b.Chords = append(b.Chords, Chord{Key: k, Reverse: true})
	}
	return b
}

// Keys returns every chord of the binding.
func (b Binding) Keys() []string {
	out := make([]string, len(b.Chords))
	for i, c := range b.Chords {
		out[i] = c.Key
	}
	return out
}

// KeyBinding describes the binding for the help view.
func (b Binding) KeyBinding() key.Binding {
	keys := b.Keys()
	help := ""
	if len(keys) > 0 {
		help = keys[0]
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(help, b.Hotkey.Label),
	)
}

// Routes shown in the menu and bound by DefaultBindings.
const (
	RouteHome     = "/"
	RouteAbout    = "/about"
	RouteData     = "/data"
	RouteNames    = "/names"
	RouteSettings = "/settings"
	RouteWizard   = "/wizard"
)

// Callbacks feed the default toggle and dev hotkeys.
type Callbacks struct {
	// ResetWizard runs before the dev chord opens the wizard. It should only
	// clear the initialized flag; stored preferences stay intact.
	ResetWizard Action
	ToggleHelp  func() error
	ToggleMenu  func() error
}

// DefaultBindings returns the shell's standard chords. Function keys move
// between views; alt+digit is the reverse chord for the same view.
func DefaultBindings(cb Callbacks) []Binding {
	bindings := []Binding{
		Bind(Navigation(RouteHome, "Home"), "f1", "alt+1"),
		Bind(Navigation(RouteAbout, "About"), "f2", "alt+2"),
		Bind(Navigation(RouteData, "Data"), "f3", "alt+3"),
		Bind(Navigation(RouteNames, "Names"), "f4", "alt+4"),
		Bind(Navigation(RouteSettings, "Settings"), "f5", "alt+5"),
		Bind(Dev(RouteWizard, "Wizard", cb.ResetWizard), "alt+W"),
	}
	if cb.ToggleHelp != nil {
		bindings = append(bindings, Bind(Toggle("Toggle help", cb.ToggleHelp), "alt+h"))
	}
	if cb.ToggleMenu != nil {
		bindings = append(bindings, Bind(Toggle("Toggle menu", cb.ToggleMenu), "alt+m"))
	}
	return bindings
}
