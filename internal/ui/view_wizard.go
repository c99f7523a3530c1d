package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/trueblocks/deskshell/internal/wizard"
)

// wizardView hosts the first-run setup flow. Completion arrives at the shell
// as a wizard.DoneMsg.
type wizardView struct {
	deps   viewDeps
	model  wizard.Model
	width  int
	height int
}

func newWizardView(deps viewDeps) *wizardView {
	styles := deps.theme.FormStyles()
	return &wizardView{
		deps: deps,
		model: wizard.New(deps.backend, wizard.Options{
			Emitter: deps.bus,
			Styles:  &styles,
		}),
	}
}

func (v *wizardView) Init() tea.Cmd { return v.model.Init() }

func (v *wizardView) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.model, cmd = v.model.Update(msg)
	return cmd
}

func (v *wizardView) SetSize(width, height int) {
	v.width, v.height = width, height
	v.model.SetWidth(min(width, 72))
}

func (v *wizardView) SetTheme(theme Theme) {
	v.deps.theme = theme
	v.model.SetStyles(theme.FormStyles())
}

func (v *wizardView) Tabs() *TabView { return nil }

func (v *wizardView) View() string {
	styles := v.deps.theme.Styles()
	hint := styles.FaintText.Render("tab moves between fields · enter continues · ctrl+l fills a local RPC")
	return v.model.View() + "\n\n" + hint
}
