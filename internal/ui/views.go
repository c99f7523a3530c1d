package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/trueblocks/deskshell/internal/backend"
	"github.com/trueblocks/deskshell/internal/events"
	"github.com/trueblocks/deskshell/internal/hotkeys"
	"github.com/trueblocks/deskshell/internal/prefs"
	"github.com/trueblocks/deskshell/internal/state"
)

// view is one routed screen. Views are rebuilt on every route change, so a
// view only ever sees messages produced while it is showing.
type view interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
	SetTheme(theme Theme)
	// Tabs returns the view's tab strip, or nil when it has none.
	Tabs() *TabView
}

// viewDeps are the collaborators every view may use.
type viewDeps struct {
	backend backend.Backend
	store   *state.Store
	bus     *events.Bus
	logger  *log.Logger
	logPath string
	theme   Theme
	keys    keyMap
}

// Routes lists every route the shell serves.
func Routes() []string {
	return []string{
		hotkeys.RouteHome,
		hotkeys.RouteAbout,
		hotkeys.RouteData,
		hotkeys.RouteNames,
		hotkeys.RouteSettings,
		hotkeys.RouteWizard,
	}
}

// newView builds the view for route. Unknown routes get the home view.
func newView(route string, deps viewDeps, width, height int) view {
	var v view
	switch route {
	case hotkeys.RouteAbout:
		v = newAboutView(deps)
	case hotkeys.RouteData:
		v = newDataView(deps)
	case hotkeys.RouteNames:
		v = newNamesView(deps)
	case hotkeys.RouteSettings:
		v = newSettingsView(deps)
	case hotkeys.RouteWizard:
		v = newWizardView(deps)
	default:
		v = newHomeView(deps)
	}
	v.SetSize(width, height)
	return v
}

type userPrefsMsg struct {
	user prefs.User
	err  error
}

type orgPrefsMsg struct {
	org prefs.Org
	err error
}

type rpcStatusMsg struct {
	ok  bool
	err error
}

func loadUserCmd(b backend.Backend) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), CallTimeout)
		defer cancel()
		user, err := b.GetUserPreferences(ctx)
		return userPrefsMsg{user: user, err: err}
	}
}

func loadOrgCmd(b backend.Backend) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), CallTimeout)
		defer cancel()
		org, err := b.GetOrgPreferences(ctx)
		return orgPrefsMsg{org: org, err: err}
	}
}

func rpcStatusCmd(b backend.Backend) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), CallTimeout)
		defer cancel()
		ok, err := b.CheckRPCStatus(ctx)
		return rpcStatusMsg{ok: ok, err: err}
	}
}
