package hotkeys

import (
	"context"
	"errors"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/trueblocks/deskshell/internal/events"
)

type fakeRouter struct {
	current   string
	navigated []string
	err       error
	panics    bool
}

func (r *fakeRouter) Current() string { return r.current }

func (r *fakeRouter) Navigate(route string) error {
	if r.panics {
		panic("boom")
	}
	if r.err != nil {
		return r.err
	}
	r.navigated = append(r.navigated, route)
	r.current = route
	return nil
}

type recorder struct {
	topics   []string
	payloads []any
}

func (r *recorder) Emit(topic string, payload any) {
	r.topics = append(r.topics, topic)
	r.payloads = append(r.payloads, payload)
}

type harness struct {
	d      *Dispatcher
	router *fakeRouter
	events *recorder
	remote []string
	hard   []string
}

func newHarness(t *testing.T, dev bool, cb Callbacks) *harness {
	t.Helper()
	h := &harness{router: &fakeRouter{current: RouteHome}, events: &recorder{}}
	h.d = New(Options{
		Router:       h.router,
		Events:       h.events,
		Remote:       func(msg string) { h.remote = append(h.remote, msg) },
		Logger:       log.New(io.Discard),
		HardNavigate: func(route string) { h.hard = append(h.hard, route) },
		Dev:          dev,
	})
	if err := h.d.RegisterAll(DefaultBindings(cb)); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	return h
}

func fkey(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func alt(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

func TestNavigationChangesRoute(t *testing.T) {
	h := newHarness(t, false, Callbacks{})
	cmd, handled := h.d.HandleKey(fkey(tea.KeyF2))
	if !handled {
		t.Fatal("f2 not handled")
	}
	msg := cmd().(DispatchedMsg)
	if msg.Err != nil {
		t.Fatalf("Err = %v, want nil", msg.Err)
	}
	if len(h.router.navigated) != 1 || h.router.navigated[0] != RouteAbout {
		t.Fatalf("navigated = %v, want [/about]", h.router.navigated)
	}
	if len(h.events.topics) != 0 {
		t.Fatalf("emitted %v, want nothing", h.events.topics)
	}
}

func TestNavigationOnCurrentRouteCyclesTabs(t *testing.T) {
	h := newHarness(t, false, Callbacks{})
	h.router.current = RouteData

	h.d.HandleKey(fkey(tea.KeyF3))
	h.d.HandleKey(alt('3'))

	if len(h.router.navigated) != 0 {
		t.Fatalf("navigated = %v, want none", h.router.navigated)
	}
	if len(h.events.payloads) != 2 {
		t.Fatalf("emitted %d events, want 2", len(h.events.payloads))
	}
	want := []events.TabCyclePayload{
		{Route: RouteData, Key: "f3"},
		{Route: RouteData, Key: "alt+3", Reverse: true},
	}
	for i, w := range want {
		if h.events.topics[i] != events.TabCycle {
			t.Fatalf("topic[%d] = %q, want %q", i, h.events.topics[i], events.TabCycle)
		}
		if got := h.events.payloads[i].(events.TabCyclePayload); got != w {
			t.Fatalf("payload[%d] = %+v, want %+v", i, got, w)
		}
	}
}

func TestUnboundKeyNotHandled(t *testing.T) {
	h := newHarness(t, false, Callbacks{})
	if _, handled := h.d.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}); handled {
		t.Fatal("x handled")
	}
}

func TestDevHotkeyIgnoredOutsideDevMode(t *testing.T) {
	called := false
	h := newHarness(t, false, Callbacks{ResetWizard: func(context.Context) error { called = true; return nil }})

	if _, handled := h.d.HandleKey(alt('W')); handled {
		t.Fatal("dev chord handled outside dev mode")
	}
	hk, chord, _ := h.d.Lookup("alt+W")
	if err := h.d.Handle(context.Background(), hk, chord); err != nil {
		t.Fatalf("Handle = %v, want nil", err)
	}
	if called || len(h.router.navigated) != 0 {
		t.Fatal("dev hotkey ran outside dev mode")
	}
}

func TestDevHotkeyRunsActionThenNavigates(t *testing.T) {
	var order []string
	h := newHarness(t, true, Callbacks{ResetWizard: func(context.Context) error {
		order = append(order, "action")
		return nil
	}})

	cmd, handled := h.d.HandleKey(alt('W'))
	if !handled {
		t.Fatal("dev chord not handled")
	}
	if len(order) != 0 {
		t.Fatal("dev action ran before the command")
	}
	msg := cmd().(DispatchedMsg)
	if msg.Err != nil {
		t.Fatalf("Err = %v, want nil", msg.Err)
	}
	if len(order) != 1 || len(h.router.navigated) != 1 || h.router.navigated[0] != RouteWizard {
		t.Fatalf("order = %v navigated = %v", order, h.router.navigated)
	}
}

func TestDevActionFailureFallsBack(t *testing.T) {
	boom := errors.New("backend down")
	h := newHarness(t, true, Callbacks{ResetWizard: func(context.Context) error { return boom }})

	cmd, _ := h.d.HandleKey(alt('W'))
	msg := cmd().(DispatchedMsg)
	if !errors.Is(msg.Err, boom) {
		t.Fatalf("Err = %v, want %v", msg.Err, boom)
	}
	if len(h.router.navigated) != 0 {
		t.Fatalf("navigated = %v, want none", h.router.navigated)
	}
	if len(h.hard) != 1 || h.hard[0] != RouteWizard {
		t.Fatalf("hard navigations = %v, want [/wizard]", h.hard)
	}
	if len(h.remote) != 1 {
		t.Fatalf("remote log lines = %d, want 1", len(h.remote))
	}
}

func TestNavigationPanicRecovered(t *testing.T) {
	h := newHarness(t, false, Callbacks{})
	h.router.panics = true

	cmd, handled := h.d.HandleKey(fkey(tea.KeyF5))
	if !handled {
		t.Fatal("f5 not handled")
	}
	if msg := cmd().(DispatchedMsg); msg.Err == nil {
		t.Fatal("Err = nil, want panic error")
	}
	if len(h.hard) != 1 || h.hard[0] != RouteSettings {
		t.Fatalf("hard navigations = %v, want [/settings]", h.hard)
	}
}

func TestToggleRunsOnAnyRoute(t *testing.T) {
	toggles := 0
	h := newHarness(t, false, Callbacks{ToggleHelp: func() error { toggles++; return nil }})
	for _, route := range []string{RouteHome, RouteWizard, "/unknown"} {
		h.router.current = route
		if _, handled := h.d.HandleKey(alt('h')); !handled {
			t.Fatalf("alt+h not handled on %s", route)
		}
	}
	if toggles != 3 {
		t.Fatalf("toggles = %d, want 3", toggles)
	}
}

func TestToggleFailureDoesNotNavigate(t *testing.T) {
	h := newHarness(t, false, Callbacks{ToggleMenu: func() error { return errors.New("nope") }})
	cmd, _ := h.d.HandleKey(alt('m'))
	if msg := cmd().(DispatchedMsg); msg.Err == nil {
		t.Fatal("Err = nil, want toggle error")
	}
	if len(h.hard) != 0 {
		t.Fatalf("hard navigations = %v, want none", h.hard)
	}
}

func TestConflictPolicy(t *testing.T) {
	first := Bind(Navigation(RouteAbout, "About"), "f9")
	second := Bind(Navigation(RouteNames, "Names"), "f9")

	d := New(Options{Logger: log.New(io.Discard)})
	if err := d.Register(first); err != nil {
		t.Fatalf("Register first: %v", err)
	}
	if err := d.Register(second); !errors.Is(err, ErrChordConflict) {
		t.Fatalf("Register second = %v, want ErrChordConflict", err)
	}
	if hk, _, _ := d.Lookup("f9"); hk.Route != RouteAbout {
		t.Fatalf("f9 -> %s, want /about", hk.Route)
	}

	d = New(Options{Logger: log.New(io.Discard), Policy: LastWins})
	_ = d.Register(first)
	if err := d.Register(second); err != nil {
		t.Fatalf("Register second = %v, want nil", err)
	}
	if hk, _, _ := d.Lookup("f9"); hk.Route != RouteNames {
		t.Fatalf("f9 -> %s, want /names", hk.Route)
	}
}

func TestBindingKeyBinding(t *testing.T) {
	b := Bind(Navigation(RouteHome, "Home"), "f1", "alt+1")
	kb := b.KeyBinding()
	if got := kb.Help().Key; got != "f1" {
		t.Fatalf("help key = %q, want f1", got)
	}
	if got := kb.Help().Desc; got != "Home" {
		t.Fatalf("help desc = %q, want Home", got)
	}
	if len(kb.Keys()) != 2 {
		t.Fatalf("keys = %v, want 2", kb.Keys())
	}
}
