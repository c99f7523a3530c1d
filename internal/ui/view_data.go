package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/trueblocks/deskshell/internal/hotkeys"
	"github.com/trueblocks/deskshell/internal/logtail"
	"github.com/trueblocks/deskshell/internal/prefs"
)

const (
	tabChains = "chains"
	tabRPCs   = "rpcs"
	tabLogs   = "logs"
)

type logLinesMsg struct {
	lines []string
	err   error
}

type logTickMsg struct{ seq int }

// dataView shows the configured chains, the RPC list and the shell's log.
type dataView struct {
	deps   viewDeps
	tabs   TabView
	width  int
	height int

	user   prefs.User
	loaded bool
	err    error

	logs    viewport.Model
	logErr  error
	logSeq  int
	logSeen bool
}

func newDataView(deps viewDeps) *dataView {
	route := hotkeys.RouteData
	return &dataView{
		deps: deps,
		tabs: NewTabView(route, []string{tabChains, tabRPCs, tabLogs}, deps.store.LastTab(route)),
		logs: viewport.New(0, 0),
	}
}

func (v *dataView) Init() tea.Cmd {
	cmds := []tea.Cmd{loadUserCmd(v.deps.backend)}
	if v.tabs.Active() == tabLogs {
		cmds = append(cmds, v.followLogs())
	}
	return tea.Batch(cmds...)
}

func (v *dataView) Tabs() *TabView { return &v.tabs }

// TabChanged starts or stops following the log.
func (v *dataView) TabChanged() tea.Cmd {
	if v.tabs.Active() == tabLogs {
		return v.followLogs()
	}
	v.logSeq++
	return nil
}

func (v *dataView) followLogs() tea.Cmd {
	v.logSeq++
	return v.readLogs()
}

func (v *dataView) readLogs() tea.Cmd {
	path := v.deps.logPath
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (v *dataView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case userPrefsMsg:
		v.user, v.err, v.loaded = msg.user, msg.err, true
		return nil

	case logLinesMsg:
		v.logErr = msg.err
		if msg.err == nil {
			atBottom := v.logs.AtBottom() || !v.logSeen
			v.logs.SetContent(v.renderLogs(msg.lines))
			if atBottom {
				v.logs.GotoBottom()
			}
			v.logSeen = true
		}
		seq := v.logSeq
		return tea.Tick(LogRefreshInterval, func(time.Time) tea.Msg { return logTickMsg{seq: seq} })

	case logTickMsg:
		if msg.seq != v.logSeq || v.tabs.Active() != tabLogs {
			return nil
		}
		return v.readLogs()

	case tea.KeyMsg:
		if key.Matches(msg, v.deps.keys.Refresh) {
			return tea.Batch(loadUserCmd(v.deps.backend), v.TabChanged())
		}
		if v.tabs.Active() == tabLogs {
			var cmd tea.Cmd
			v.logs, cmd = v.logs.Update(msg)
			return cmd
		}
	}
	return nil
}

func (v *dataView) SetSize(width, height int) {
	v.width, v.height = width, height
	v.logs.Width = max(0, width)
	v.logs.Height = max(1, height-3)
}

func (v *dataView) SetTheme(theme Theme) { v.deps.theme = theme }

func (v *dataView) View() string {
	styles := v.deps.theme.Styles()
	var body string
	switch v.tabs.Active() {
	case tabChains:
		body = v.renderChains(styles)
	case tabRPCs:
		body = v.renderRPCs(styles)
	case tabLogs:
		if v.logErr != nil {
			body = styles.DangerText.Render("Unable to read log: " + v.logErr.Error())
		} else if !v.logSeen {
			body = styles.FaintText.Render("Reading " + v.deps.logPath + "...")
		} else {
			body = v.logs.View()
		}
	}
	return v.tabs.View(styles, v.width) + "\n" + body
}

func (v *dataView) renderChains(styles Styles) string {
	if msg, ok := v.placeholder(styles); ok {
		return msg
	}
	if len(v.user.Chains) == 0 {
		return styles.FaintText.Render("No chains configured.")
	}
	var b strings.Builder
	header := fmt.Sprintf("%-16s %-10s %-8s %s", "CHAIN", "ID", "SYMBOL", "EXPLORER")
	b.WriteString(styles.MutedText.Bold(true).Render(header))
	for _, c := range v.user.Chains {
		line := fmt.Sprintf("%-16s %-10d %-8s %s",
			truncate(c.Chain, 16), c.ChainID, truncate(c.Symbol, 8), c.RemoteExplorer)
		b.WriteString("\n")
		b.WriteString(styles.Text.Render(truncate(line, v.width)))
		for _, rpc := range c.RPCProviders {
			b.WriteString("\n")
			b.WriteString(styles.FaintText.Render("  └ " + truncate(rpc, v.width-4)))
		}
	}
	return b.String()
}

func (v *dataView) renderRPCs(styles Styles) string {
	if msg, ok := v.placeholder(styles); ok {
		return msg
	}
	if len(v.user.RPCs) == 0 {
		return styles.FaintText.Render("No RPC endpoints configured.")
	}
	var b strings.Builder
	for i, rpc := range v.user.RPCs {
		if i > 0 {
			b.WriteString("\n")
		}
		marker := styles.FaintText.Render(fmt.Sprintf("%d.", i+1))
		if i == 0 {
			marker = styles.AccentText.Render("▶ ")
		}
		b.WriteString(marker + " " + styles.Text.Render(truncate(rpc, v.width-4)))
	}
	return b.String()
}

func (v *dataView) placeholder(styles Styles) (string, bool) {
	switch {
	case v.err != nil:
		return styles.DangerText.Render("Unable to load preferences: " + v.err.Error()), true
	case !v.loaded:
		return styles.FaintText.Render("Loading..."), true
	}
	return "", false
}

func (v *dataView) renderLogs(lines []string) string {
	styles := v.deps.theme.Styles()
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		e := logtail.Parse(line)
		var b strings.Builder
		if e.Time != "" {
			b.WriteString(styles.FaintText.Render(shortTime(e.Time)))
			b.WriteString(" ")
		}
		if e.Level != "" {
			b.WriteString(styles.LevelStyle(e.Level).Render(padRight(strings.ToUpper(e.Level), 5)))
			b.WriteString(" ")
		}
		b.WriteString(styles.Text.Render(e.Message))
		for _, kv := range e.Fields {
			b.WriteString(" ")
			b.WriteString(styles.MutedText.Render(kv[0] + "="))
			b.WriteString(styles.AccentText.Render(kv[1]))
		}
		out = append(out, b.String())
	}
	return strings.Join(out, "\n")
}

// shortTime trims an RFC 3339 timestamp to its clock part.
func shortTime(ts string) string {
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.Local().Format("15:04:05")
	}
	return ts
}
