package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trueblocks/deskshell/internal/prefs"
)

type homeCard struct {
	title string
	body  string
}

var homeCards = []homeCard{
	{"Explore Blocks", "Browse and analyze blocks and their transactions."},
	{"Transactions", "Search and view detailed transaction information."},
	{"Account Data", "Analyze account history and interactions."},
}

// homeView greets the user and shows the RPC connection.
type homeView struct {
	deps   viewDeps
	width  int
	height int

	user     prefs.User
	loaded   bool
	rpcKnown bool
	rpcOK    bool
	err      error
}

func newHomeView(deps viewDeps) *homeView {
	return &homeView{deps: deps}
}

func (v *homeView) Init() tea.Cmd {
	return tea.Batch(loadUserCmd(v.deps.backend), rpcStatusCmd(v.deps.backend))
}

func (v *homeView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case userPrefsMsg:
		v.user, v.err, v.loaded = msg.user, msg.err, true
	case rpcStatusMsg:
		v.rpcKnown = msg.err == nil
		v.rpcOK = msg.ok
	}
	return nil
}

func (v *homeView) SetSize(width, height int) { v.width, v.height = width, height }
func (v *homeView) SetTheme(theme Theme)      { v.deps.theme = theme }
func (v *homeView) Tabs() *TabView            { return nil }

func (v *homeView) View() string {
	styles := v.deps.theme.Styles()

	greeting := "Welcome"
	if name := strings.TrimSpace(v.user.Name); name != "" {
		greeting = "Welcome, " + name
	}

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(greeting))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Width(v.width).Render(
		"Your application is set up and ready to use. You can start exploring chain data."))
	b.WriteString("\n\n")

	cardWidth := max(16, (v.width-len(homeCards)*4)/len(homeCards))
	cards := make([]string, 0, len(homeCards))
	for _, c := range homeCards {
		body := styles.AccentText.Bold(true).Render(c.title) + "\n" + styles.MutedText.Render(c.body)
		cards = append(cards, styles.Panel.Width(cardWidth).Render(body))
	}
	if v.width >= LayoutCompactWidth-MenuWidth {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	} else {
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, cards...))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.Panel.Width(max(20, v.width-4)).Render(v.connection(styles)))
	return b.String()
}

func (v *homeView) connection(styles Styles) string {
	title := styles.AccentText.Bold(true).Render("Your RPC Connection")
	if v.err != nil {
		return title + "\n" + styles.DangerText.Render("Unable to load preferences: "+v.err.Error())
	}
	if !v.loaded {
		return title + "\n" + styles.FaintText.Render("Loading...")
	}
	if len(v.user.RPCs) == 0 {
		return title + "\n" + styles.WarningText.Render("No RPC configured. Open the settings to add one.")
	}

	status := styles.FaintText.Render("checking...")
	if v.rpcKnown {
		if v.rpcOK {
			status = styles.SuccessText.Render("● reachable")
		} else {
			status = styles.DangerText.Render("● unreachable")
		}
	}
	line := fmt.Sprintf("%s  %s", styles.Text.Render(truncate(v.user.RPCs[0], v.width-20)), status)
	if n := len(v.user.Chains); n > 0 {
		line += "\n" + styles.MutedText.Render(fmt.Sprintf("%d chain(s) configured", n))
	}
	return title + "\n" + line
}
