package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trueblocks/deskshell/internal/backend"
	"github.com/trueblocks/deskshell/internal/events"
	"github.com/trueblocks/deskshell/internal/hotkeys"
	"github.com/trueblocks/deskshell/internal/state"
	"github.com/trueblocks/deskshell/internal/wizard"
)

type upProber struct{}

func (upProber) ChainID(context.Context, string) (uint64, error) { return 1, nil }

type fakePoller struct {
	ch      chan bool
	stopped bool
}

func newFakePoller() *fakePoller { return &fakePoller{ch: make(chan bool, 1)} }

func (p *fakePoller) Updates() <-chan bool { return p.ch }

func (p *fakePoller) Stop() {
	if !p.stopped {
		p.stopped = true
		close(p.ch)
	}
}

type harness struct {
	svc     *backend.Service
	store   *state.Store
	bus     *events.Bus
	pollers []*fakePoller
}

func openService(t *testing.T) *backend.Service {
	t.Helper()
	svc, err := backend.Open(t.TempDir(), backend.WithProber(upProber{}))
	if err != nil {
		t.Fatalf("backend.Open: %v", err)
	}
	return svc
}

func newHarness(t *testing.T, dev bool) (*harness, Model) {
	t.Helper()
	h := &harness{svc: openService(t), bus: &events.Bus{}}
	h.store = state.New(
		state.WithRoutes(Routes()...),
		state.WithMirror(h.svc),
		state.WithRunner(func(f func()) { f() }),
	)
	m := New(Options{
		Backend: h.svc,
		Store:   h.store,
		Events:  h.bus,
		Dev:     dev,
		StartPoller: func() Poller {
			p := newFakePoller()
			h.pollers = append(h.pollers, p)
			return p
		},
	})
	t.Cleanup(func() { m.bridge.close() })
	m = step(t, m, tea.WindowSizeMsg{Width: 160, Height: 40})
	return h, m
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

var functionKeys = []tea.KeyType{tea.KeyF1, tea.KeyF2, tea.KeyF3, tea.KeyF4, tea.KeyF5}

func fkey(n int) tea.KeyMsg {
	return tea.KeyMsg{Type: functionKeys[n-1]}
}

func altKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

func TestNavigationChordSwitchesView(t *testing.T) {
	h, m := newHarness(t, false)

	m = step(t, m, fkey(3))
	if m.Route() != hotkeys.RouteData {
		t.Fatalf("Route() = %q, want %q", m.Route(), hotkeys.RouteData)
	}
	if _, ok := m.view.(*dataView); !ok {
		t.Fatalf("view = %T, want *dataView", m.view)
	}
	app, _ := h.svc.GetAppPreferences(context.Background())
	if app.LastView != hotkeys.RouteData {
		t.Fatalf("mirrored LastView = %q, want %q", app.LastView, hotkeys.RouteData)
	}
}

func TestSameRouteChordCyclesTabs(t *testing.T) {
	h, m := newHarness(t, false)
	m = step(t, m, fkey(3))

	m = step(t, m, fkey(3))
	m = step(t, m, m.bridge.listen()())
	if got := m.view.Tabs().Active(); got != tabRPCs {
		t.Fatalf("after forward chord tab = %q, want %q", got, tabRPCs)
	}
	if got := h.store.LastTab(hotkeys.RouteData); got != tabRPCs {
		t.Fatalf("store LastTab = %q, want %q", got, tabRPCs)
	}

	m = step(t, m, altKey('3'))
	m = step(t, m, m.bridge.listen()())
	if got := m.view.Tabs().Active(); got != tabChains {
		t.Fatalf("after reverse chord tab = %q, want %q", got, tabChains)
	}
	if m.Route() != hotkeys.RouteData {
		t.Fatalf("tab cycling changed route to %q", m.Route())
	}
}

func TestRebuiltViewRestoresLastTab(t *testing.T) {
	h, m := newHarness(t, false)
	h.store.SetLastTab(hotkeys.RouteSettings, tabOrg)

	m = step(t, m, fkey(5))
	if got := m.view.Tabs().Active(); got != tabOrg {
		t.Fatalf("settings tab = %q, want %q", got, tabOrg)
	}
}

func TestToggleChordsMirror(t *testing.T) {
	h, m := newHarness(t, false)

	m = step(t, m, altKey('m'))
	m = step(t, m, altKey('h'))
	snap := h.store.Snapshot()
	if !snap.MenuCollapsed || !snap.HelpCollapsed {
		t.Fatalf("snapshot = %+v, want both panels collapsed", snap)
	}
	app, _ := h.svc.GetAppPreferences(context.Background())
	if !app.MenuCollapsed || !app.HelpCollapsed {
		t.Fatalf("mirrored app prefs = %+v, want both panels collapsed", app)
	}
	if m.Route() != hotkeys.RouteHome {
		t.Fatalf("toggle changed route to %q", m.Route())
	}
}

func TestDevChordInactiveWhenDevOff(t *testing.T) {
	_, m := newHarness(t, false)
	m = step(t, m, altKey('W'))
	if m.Route() != hotkeys.RouteHome {
		t.Fatalf("Route() = %q, want %q with dev off", m.Route(), hotkeys.RouteHome)
	}
}

func TestDevChordClearsInitializedAndOpensWizard(t *testing.T) {
	h, m := newHarness(t, true)
	ctx := context.Background()
	if err := h.svc.SetUserInfo(ctx, "Anne", "anne@example.com"); err != nil {
		t.Fatalf("SetUserInfo: %v", err)
	}
	if err := h.svc.SetInitialized(ctx, true); err != nil {
		t.Fatalf("SetInitialized: %v", err)
	}

	hk, chord, ok := m.dispatcher.Lookup("alt+W")
	if !ok {
		t.Fatal("alt+W is not bound")
	}
	err := m.dispatcher.Handle(ctx, hk, chord)
	m = step(t, m, hotkeys.DispatchedMsg{Hotkey: hk, Chord: chord, Err: err})

	if m.Route() != hotkeys.RouteWizard {
		t.Fatalf("Route() = %q, want %q", m.Route(), hotkeys.RouteWizard)
	}
	if _, ok := m.view.(*wizardView); !ok {
		t.Fatalf("view = %T, want *wizardView", m.view)
	}
	if initialized, _ := h.svc.IsInitialized(ctx); initialized {
		t.Fatal("IsInitialized() = true after the dev chord, want false")
	}
	user, _ := h.svc.GetUserPreferences(ctx)
	if user.Name != "Anne" || user.Email != "anne@example.com" {
		t.Fatalf("identity after the dev chord = %q <%q>, want it kept", user.Name, user.Email)
	}
	if !h.pollers[0].stopped {
		t.Fatal("poller still running inside the wizard")
	}
}

func TestReadinessRedirectsIntoWizardAndBack(t *testing.T) {
	h, m := newHarness(t, false)
	if len(h.pollers) != 1 {
		t.Fatalf("pollers started = %d, want 1", len(h.pollers))
	}

	m = step(t, m, readinessMsg{poller: h.pollers[0], initialized: true})
	if m.Route() != hotkeys.RouteHome {
		t.Fatalf("ready answer moved route to %q", m.Route())
	}

	m = step(t, m, readinessMsg{poller: h.pollers[0], initialized: false})
	if m.Route() != hotkeys.RouteWizard {
		t.Fatalf("Route() = %q, want %q", m.Route(), hotkeys.RouteWizard)
	}
	if !h.pollers[0].stopped {
		t.Fatal("poller not stopped on entering the wizard")
	}

	m = step(t, m, wizard.DoneMsg{Route: hotkeys.RouteSettings})
	if m.Route() != hotkeys.RouteSettings {
		t.Fatalf("Route() after setup = %q, want %q", m.Route(), hotkeys.RouteSettings)
	}
	if len(h.pollers) != 2 || h.pollers[1].stopped {
		t.Fatalf("pollers = %d, want a fresh running poller after the wizard", len(h.pollers))
	}
}

func TestStaleReadinessIgnored(t *testing.T) {
	_, m := newHarness(t, false)
	m = step(t, m, readinessMsg{poller: newFakePoller(), initialized: false})
	if m.Route() != hotkeys.RouteHome {
		t.Fatalf("stale poller moved route to %q", m.Route())
	}
}

func TestWizardDoneUnknownRouteHardNavigates(t *testing.T) {
	h, m := newHarness(t, false)
	m = step(t, m, wizard.DoneMsg{Route: "/gone"})
	if got := h.store.Current(); got != "/gone" {
		t.Fatalf("store route = %q, want forced /gone", got)
	}
	if _, ok := m.view.(*homeView); !ok {
		t.Fatalf("view = %T, want *homeView for an unknown route", m.view)
	}
}

func TestDispatchFailureRebuildsView(t *testing.T) {
	h, m := newHarness(t, false)
	h.store.ForceRoute(hotkeys.RouteNames)

	m = step(t, m, hotkeys.DispatchedMsg{Err: errors.New("boom")})
	if _, ok := m.view.(*namesView); !ok {
		t.Fatalf("view = %T, want *namesView", m.view)
	}
	if !strings.Contains(m.status, "Navigation failed") {
		t.Fatalf("status = %q, want a navigation failure notice", m.status)
	}
}

func TestStatusMessageClears(t *testing.T) {
	_, m := newHarness(t, false)
	m = step(t, m, statusMsg("saved"))
	if m.status != "saved" {
		t.Fatalf("status = %q, want saved", m.status)
	}
	m = step(t, m, statusClearMsg{seq: m.statusSeq - 1})
	if m.status != "saved" {
		t.Fatal("stale clear removed the newer status")
	}
	m = step(t, m, statusClearMsg{seq: m.statusSeq})
	if m.status != "" {
		t.Fatalf("status = %q, want cleared", m.status)
	}
}

func TestFileStatusMarksDirty(t *testing.T) {
	_, m := newHarness(t, false)
	m = step(t, m, fileStatusMsg{Path: "user.toml", Dirty: true})
	if got := m.dirtyFiles(); len(got) != 1 || got[0] != "user.toml" {
		t.Fatalf("dirtyFiles() = %v, want [user.toml]", got)
	}
	m = step(t, m, fileStatusMsg{Path: "user.toml", Dirty: false})
	if got := m.dirtyFiles(); len(got) != 0 {
		t.Fatalf("dirtyFiles() = %v, want none", got)
	}
}

func TestKeysModalOpensAndCloses(t *testing.T) {
	_, m := newHarness(t, false)
	m = step(t, m, altKey('k'))
	if m.modal == nil {
		t.Fatal("alt+k did not open the shortcut overlay")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("overlay does not render its title")
	}
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.modal != nil {
		t.Fatal("esc did not close the overlay")
	}
}

func TestCycleThemePersists(t *testing.T) {
	h, m := newHarness(t, false)
	next, cmd := m.Update(altKey('t'))
	m = next.(Model)
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	if msg, ok := cmd().(themeSavedMsg); !ok || msg.err != nil {
		t.Fatalf("save theme = %#v, want success", msg)
	}
	app, _ := h.svc.GetAppPreferences(context.Background())
	if app.Theme != "Kanagawa" {
		t.Fatalf("persisted theme = %q, want Kanagawa", app.Theme)
	}
}

func TestQuitStopsPoller(t *testing.T) {
	h, m := newHarness(t, false)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c returned no command")
	}
	if !h.pollers[0].stopped {
		t.Fatal("quit left the poller running")
	}
	if h.bus.Len() != 0 {
		t.Fatalf("bus subscriptions after quit = %d, want 0", h.bus.Len())
	}
}

func TestViewRendersChrome(t *testing.T) {
	_, m := newHarness(t, false)
	out := m.View()
	for _, want := range []string{"deskshell", "Home", "Settings", "Welcome"} {
		if !strings.Contains(out, want) {
			t.Fatalf("View() missing %q", want)
		}
	}
}
