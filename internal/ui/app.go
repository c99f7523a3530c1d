package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/trueblocks/deskshell/internal/backend"
	"github.com/trueblocks/deskshell/internal/events"
	"github.com/trueblocks/deskshell/internal/hotkeys"
	"github.com/trueblocks/deskshell/internal/logging"
	"github.com/trueblocks/deskshell/internal/state"
	"github.com/trueblocks/deskshell/internal/wizard"
)

// Poller is the readiness poll as the shell sees it. Updates is closed by
// Stop.
type Poller interface {
	Updates() <-chan bool
	Stop()
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Backend   backend.Backend
	Store     *state.Store
	Events    *events.Bus
	Logger    *log.Logger
	LogPath   string
	Language  string
	ThemeName string
	Dev       bool
	// StartPoller launches a readiness poll. It is called whenever the shell
	// leaves the wizard and the poll is stopped when it enters it again.
	StartPoller func() Poller
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx         context.Context
	backend     backend.Backend
	store       *state.Store
	bus         *events.Bus
	logger      *log.Logger
	logPath     string
	startPoller func() Poller
	poller      Poller

	dispatcher *hotkeys.Dispatcher
	menu       []menuItem
	bridge     *bridge
	keys       keyMap

	theme  Theme
	width  int
	height int
	ready  bool

	route string
	view  view
	help  helpPanel
	modal Modal

	status    string
	statusSeq int
	dirty     map[string]bool
}

type readinessMsg struct {
	poller      Poller
	initialized bool
}

type statusClearMsg struct{ seq int }

type themeSavedMsg struct{ err error }

// tabListener is implemented by views that react to their tab changing.
type tabListener interface {
	TabChanged() tea.Cmd
}

// New creates the root model. It starts the readiness poll when the first
// route is not the wizard.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	bus := opts.Events
	if bus == nil {
		bus = &events.Bus{}
	}
	store := opts.Store
	if store == nil {
		store = state.New(state.WithRoutes(Routes()...), state.WithLogger(logger))
	}

	m := Model{
		ctx:         ctx,
		backend:     opts.Backend,
		store:       store,
		bus:         bus,
		logger:      logger,
		logPath:     opts.LogPath,
		startPoller: opts.StartPoller,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.ThemeName),
		help:        newHelpPanel(opts.Language, logger),
		dirty:       map[string]bool{},
	}

	m.dispatcher = hotkeys.New(hotkeys.Options{
		Router:       store,
		Events:       bus,
		Remote:       opts.Backend.Logger,
		Logger:       logger,
		HardNavigate: store.ForceRoute,
		Dev:          opts.Dev,
	})
	b := opts.Backend
	bindings := hotkeys.DefaultBindings(hotkeys.Callbacks{
		ResetWizard: func(ctx context.Context) error { return b.SetInitialized(ctx, false) },
		ToggleHelp:  store.ToggleHelp,
		ToggleMenu:  store.ToggleMenu,
	})
	if err := m.dispatcher.RegisterAll(bindings); err != nil {
		logger.Error("hotkey registration", "err", err)
	}
	for _, bnd := range bindings {
		if bnd.Hotkey.Kind == hotkeys.KindDev && !opts.Dev {
			continue
		}
		m.keys.Hotkeys = append(m.keys.Hotkeys, bnd.KeyBinding())
	}
	m.menu = menuItems(bindings)
	m.bridge = newBridge(bus)

	m.route = store.Current()
	m.view = newView(m.route, m.deps(), 0, 0)
	m.help.route, m.help.tab = m.route, m.currentTab()
	m.syncPoller()
	return m
}

func (m Model) deps() viewDeps {
	return viewDeps{
		backend: m.backend,
		store:   m.store,
		bus:     m.bus,
		logger:  m.logger,
		logPath: m.logPath,
		theme:   m.theme,
		keys:    m.keys,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.bridge.listen(),
		m.view.Init(),
		m.help.load(m.backend, m.route, m.currentTab()),
	}
	if m.poller != nil {
		cmds = append(cmds, waitReadiness(m.poller))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case hotkeys.DispatchedMsg:
		if msg.Err != nil {
			// A hard navigation already happened; rebuild from scratch.
			cmd := m.syncRoute(true)
			return m, tea.Batch(cmd, m.setStatus("Navigation failed, reloaded "+routeTitle(m.route)))
		}
		return m, m.syncRoute(false)

	case readinessMsg:
		if msg.poller != m.poller {
			return m, nil
		}
		cmds := []tea.Cmd{waitReadiness(m.poller)}
		if !msg.initialized && m.route != hotkeys.RouteWizard {
			m.logger.Info("setup required, opening wizard", "from", m.route)
			if err := m.store.Navigate(hotkeys.RouteWizard); err != nil {
				m.store.ForceRoute(hotkeys.RouteWizard)
			}
			cmds = append(cmds, m.syncRoute(false))
		}
		return m, tea.Batch(cmds...)

	case wizard.DoneMsg:
		force := false
		if err := m.store.Navigate(msg.Route); err != nil {
			m.logger.Warn("wizard return failed, forcing route", "route", msg.Route, "err", err)
			m.store.ForceRoute(msg.Route)
			force = true
		}
		return m, m.syncRoute(force)

	case statusMsg:
		return m, tea.Batch(m.bridge.listen(), m.setStatus(string(msg)))

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tabCycleMsg:
		return m, tea.Batch(m.bridge.listen(), m.cycleTab(events.TabCyclePayload(msg)))

	case fileStatusMsg:
		m.dirty[msg.Path] = msg.Dirty
		return m, m.bridge.listen()

	case markdownMsg:
		m.help.apply(msg)
		return m, nil

	case themeSavedMsg:
		if msg.err != nil {
			m.logger.Warn("save theme failed", "err", msg.err)
		}
		return m, nil
	}

	if m.view == nil {
		return m, nil
	}
	return m, m.view.Update(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderBody(max(1, m.height-2)),
		m.renderStatusBar(),
	)
}

// Route returns the route being shown.
func (m Model) Route() string { return m.route }

// handleKey gives the modal, the shell keys and the dispatcher a look before
// the active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil {
		modal, cmd, closeModal := m.modal.Update(msg, m.keys)
		m.modal = modal
		if closeModal {
			m.modal = nil
		}
		return m, cmd
	}

	if key.Matches(msg, m.keys.Quit) {
		m.shutdown()
		return m, tea.Quit
	}

	if cmd, ok := m.dispatcher.HandleKey(msg); ok {
		return m, tea.Batch(cmd, m.syncRoute(false))
	}

	switch {
	case key.Matches(msg, m.keys.Keys):
		m.modal = newKeysModal(m.keys, m.dispatcher.Dev())
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.view != nil {
			m.view.SetTheme(m.theme)
		}
		m.resize()
		return m, saveThemeCmd(m.backend, m.theme.Name)

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		if m.helpVisible() {
			return m, m.help.scroll(msg)
		}
	}

	if m.view == nil {
		return m, nil
	}
	return m, m.view.Update(msg)
}

// syncRoute rebuilds the view when the store's route moved, or always when
// force is set. It also starts or stops the readiness poll.
func (m *Model) syncRoute(force bool) tea.Cmd {
	route := m.store.Current()
	if route == m.route && !force && m.view != nil {
		m.resize()
		return nil
	}
	m.route = route
	m.view = newView(route, m.deps(), 0, 0)
	m.resize()
	cmds := []tea.Cmd{
		m.view.Init(),
		m.help.load(m.backend, route, m.currentTab()),
	}
	if cmd := m.syncPoller(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// syncPoller keeps the readiness poll running everywhere but the wizard.
func (m *Model) syncPoller() tea.Cmd {
	inWizard := m.route == hotkeys.RouteWizard
	switch {
	case inWizard && m.poller != nil:
		m.poller.Stop()
		m.poller = nil
	case !inWizard && m.poller == nil && m.startPoller != nil:
		m.poller = m.startPoller()
		return waitReadiness(m.poller)
	}
	return nil
}

func (m *Model) cycleTab(tc events.TabCyclePayload) tea.Cmd {
	if tc.Route != m.route || m.view == nil {
		return nil
	}
	tabs := m.view.Tabs()
	if tabs == nil {
		return nil
	}
	label := tabs.Cycle(tc.Reverse)
	m.store.SetLastTab(m.route, label)
	cmds := []tea.Cmd{m.help.load(m.backend, m.route, label)}
	if l, ok := m.view.(tabListener); ok {
		cmds = append(cmds, l.TabChanged())
	}
	return tea.Batch(cmds...)
}

func (m Model) activeTabs() *TabView {
	if m.view == nil {
		return nil
	}
	return m.view.Tabs()
}

func (m Model) currentTab() string {
	if tabs := m.activeTabs(); tabs != nil {
		return tabs.Active()
	}
	return ""
}

func (m *Model) setStatus(text string) tea.Cmd {
	m.status = text
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(StatusClearAfter, func(time.Time) tea.Msg { return statusClearMsg{seq: seq} })
}

func (m *Model) resize() {
	if !m.ready {
		return
	}
	height := max(1, m.height-2)
	if m.view != nil {
		m.view.SetSize(m.contentWidth()-2, height)
	}
	m.help.resize(HelpWidth-4, height-2, m.theme.Glamour)
}

// shutdown releases the poll and the bus subscriptions.
func (m *Model) shutdown() {
	m.bridge.close()
	if m.poller != nil {
		m.poller.Stop()
		m.poller = nil
	}
}

func waitReadiness(p Poller) tea.Cmd {
	updates := p.Updates()
	return func() tea.Msg {
		initialized, ok := <-updates
		if !ok {
			return nil
		}
		return readinessMsg{poller: p, initialized: initialized}
	}
}

func saveThemeCmd(b backend.Backend, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), CallTimeout)
		defer cancel()
		app, err := b.GetAppPreferences(ctx)
		if err != nil {
			return themeSavedMsg{err: err}
		}
		app.Theme = name
		return themeSavedMsg{err: b.SetAppPreferences(ctx, app)}
	}
}

// Run starts the Bubble Tea program and blocks until it exits or the
// context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.shutdown()
	} else {
		m.shutdown()
	}
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
