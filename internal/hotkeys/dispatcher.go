package hotkeys

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/trueblocks/deskshell/internal/events"
)

// ErrChordConflict is returned by Register under FirstWins when a chord is
// already bound.
var ErrChordConflict = errors.New("chord already bound")

// Policy decides what happens when two bindings share a chord.
type Policy int

const (
	// FirstWins keeps the earlier binding and rejects the new one.
	FirstWins Policy = iota
	// LastWins replaces the earlier binding.
	LastWins
)

// Router is the dispatcher's view of the shell's current route.
type Router interface {
	Current() string
	Navigate(route string) error
}

// Emitter publishes tab-cycle events.
type Emitter interface {
	Emit(topic string, payload any)
}

// Options configure a Dispatcher.
type Options struct {
	Router Router
	Events Emitter
	// Remote receives a one-line description of every dispatch failure,
	// usually the backend's log sink.
	Remote func(msg string)
	Logger *log.Logger
	// HardNavigate resets view state and forces route after a failed
	// navigation or dev dispatch.
	HardNavigate func(route string)
	Dev          bool
	Policy       Policy
}

// DispatchedMsg reports the outcome of a key handled by HandleKey.
type DispatchedMsg struct {
	Hotkey Hotkey
	Chord  Chord
	Err    error
}

type entry struct {
	hotkey Hotkey
	chord  Chord
}

// Dispatcher maps chords to hotkeys.
type Dispatcher struct {
	router   Router
	events   Emitter
	remote   func(string)
	logger   *log.Logger
	fallback func(string)
	dev      bool
	policy   Policy

	mu     sync.RWMutex
	chords map[string]entry
}

// New builds a dispatcher with no bindings.
func New(opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{
		router:   opts.Router,
		events:   opts.Events,
		remote:   opts.Remote,
		logger:   logger,
		fallback: opts.HardNavigate,
		dev:      opts.Dev,
		policy:   opts.Policy,
		chords:   make(map[string]entry),
	}
}

// Register binds every chord of b. Under FirstWins nothing is registered when
// any chord is taken.
func (d *Dispatcher) Register(b Binding) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.policy == FirstWins {
		for _, c := range b.Chords {
			if prev, ok := d.chords[c.Key]; ok {
				return fmt.Errorf("%w: %s is bound to %s", ErrChordConflict, c.Key, prev.hotkey.Label)
			}
		}
	}
	for _, c := range b.Chords {
		d.chords[c.Key] = entry{hotkey: b.Hotkey, chord: c}
	}
	return nil
}

// RegisterAll registers bindings in order and joins the errors.
func (d *Dispatcher) RegisterAll(bindings []Binding) error {
	var errs []error
	for _, b := range bindings {
		if err := d.Register(b); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Lookup returns the hotkey bound to a chord.
func (d *Dispatcher) Lookup(chord string) (Hotkey, Chord, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.chords[chord]
	return e.hotkey, e.chord, ok
}

// Dev reports whether dev hotkeys are active.
func (d *Dispatcher) Dev() bool { return d.dev }

// HandleKey dispatches msg when it matches a bound chord. A handled key must
// not be passed on to the focused view. Dev hotkeys run in the returned
// command; the others run before HandleKey returns.
func (d *Dispatcher) HandleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	hk, chord, ok := d.Lookup(msg.String())
	if !ok {
		return nil, false
	}
	if hk.Kind == KindDev && !d.dev {
		return nil, false
	}

	if hk.Kind == KindDev {
		return func() tea.Msg {
			err := d.Handle(context.Background(), hk, chord)
			return DispatchedMsg{Hotkey: hk, Chord: chord, Err: err}
		}, true
	}

	err := d.Handle(context.Background(), hk, chord)
	return func() tea.Msg {
		return DispatchedMsg{Hotkey: hk, Chord: chord, Err: err}
	}, true
}

// Handle performs one dispatch. Errors and panics are logged and, for
// navigation and dev hotkeys, followed by a hard navigation to the target.
func (d *Dispatcher) Handle(ctx context.Context, hk Hotkey, chord Chord) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hotkey %s panicked: %v", hk.Label, r)
		}
		if err != nil {
			d.fail(hk, chord, err)
		}
	}()

	switch hk.Kind {
	case KindNavigation:
		return d.navigate(hk.Route, chord)
	case KindDev:
		if !d.dev {
			return nil
		}
		if hk.Action != nil {
			if err := hk.Action(ctx); err != nil {
				return fmt.Errorf("dev action %s: %w", hk.Label, err)
			}
		}
		return d.moveTo(hk.Route)
	case KindToggle:
		if hk.Action == nil {
			return nil
		}
		if err := hk.Action(ctx); err != nil {
			return fmt.Errorf("toggle %s: %w", hk.Label, err)
		}
		return nil
	}
	return fmt.Errorf("unknown hotkey kind %d", hk.Kind)
}

// navigate cycles tabs when route is already showing.
func (d *Dispatcher) navigate(route string, chord Chord) error {
	if d.router != nil && d.router.Current() == route {
		if d.events != nil {
			d.events.Emit(events.TabCycle, events.TabCyclePayload{
				Route:   route,
				Key:     chord.Key,
				Reverse: chord.Reverse,
			})
		}
		return nil
	}
	return d.moveTo(route)
}

func (d *Dispatcher) moveTo(route string) error {
	if d.router == nil {
		return fmt.Errorf("navigate to %s: no router", route)
	}
	if err := d.router.Navigate(route); err != nil {
		return fmt.Errorf("navigate to %s: %w", route, err)
	}
	return nil
}

func (d *Dispatcher) fail(hk Hotkey, chord Chord, err error) {
	d.logger.Error("hotkey dispatch failed", "chord", chord.Key, "hotkey", hk.Label, "kind", hk.Kind, "err", err)
	if d.remote != nil {
		d.remote(fmt.Sprintf("hotkey %s (%s) failed: %v", chord.Key, hk.Label, err))
	}
	if hk.Kind == KindToggle || d.fallback == nil {
		return
	}
	d.fallback(hk.Route)
}
