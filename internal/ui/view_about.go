package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trueblocks/deskshell/internal/prefs"
)

// aboutView shows the organization record.
type aboutView struct {
	deps   viewDeps
	width  int
	height int

	org    prefs.Org
	loaded bool
	err    error
}

func newAboutView(deps viewDeps) *aboutView {
	return &aboutView{deps: deps}
}

func (v *aboutView) Init() tea.Cmd { return loadOrgCmd(v.deps.backend) }

func (v *aboutView) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(orgPrefsMsg); ok {
		v.org, v.err, v.loaded = msg.org, msg.err, true
	}
	return nil
}

func (v *aboutView) SetSize(width, height int) { v.width, v.height = width, height }
func (v *aboutView) SetTheme(theme Theme)      { v.deps.theme = theme }
func (v *aboutView) Tabs() *TabView            { return nil }

func (v *aboutView) View() string {
	styles := v.deps.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("About deskshell"))
	b.WriteString("\n\n")
	switch {
	case v.err != nil:
		b.WriteString(styles.DangerText.Render("Unable to load organization: " + v.err.Error()))
		return b.String()
	case !v.loaded:
		b.WriteString(styles.FaintText.Render("Loading..."))
		return b.String()
	}

	rows := [][2]string{
		{"Developer", v.org.Developer},
		{"Support", v.org.SupportURL},
		{"Version", v.org.Version},
		{"Language", v.org.Language},
		{"Log level", v.org.LogLevel},
		{"Log file", v.deps.logPath},
	}
	for _, r := range rows {
		if strings.TrimSpace(r[1]) == "" {
			continue
		}
		b.WriteString(styles.MutedText.Render(padRight(r[0], 12)))
		b.WriteString(styles.Text.Render(truncate(r[1], v.width-14)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("The help panel (alt+h) explains each view."))
	return b.String()
}
