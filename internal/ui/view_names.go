package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/trueblocks/deskshell/internal/form"
	"github.com/trueblocks/deskshell/internal/prefs"
)

// namesView lists who the shell knows about in a read-only form.
type namesView struct {
	deps   viewDeps
	form   form.Model
	width  int
	height int
	err    error
}

func newNamesView(deps viewDeps) *namesView {
	styles := deps.theme.FormStyles()
	return &namesView{
		deps: deps,
		form: form.New(form.Options{
			Title:       "Names",
			Description: "The identities stored in your preferences.",
			Mode:        form.Display,
			Fields:      namesFields(prefs.User{}, prefs.Org{}),
			Styles:      &styles,
			Emitter:     deps.bus,
		}),
	}
}

func namesFields(user prefs.User, org prefs.Org) []form.Field {
	return []form.Field{
		{Name: "name", Label: "Name", Value: user.Name, ReadOnly: true},
		{Name: "email", Label: "Email", Value: user.Email, ReadOnly: true, SameLine: true},
		{Label: "Organization", Fields: []form.Field{
			{Name: "developer", Label: "Developer", Value: org.Developer, ReadOnly: true},
			{Name: "supportUrl", Label: "Support", Value: org.SupportURL, ReadOnly: true, SameLine: true},
		}},
	}
}

func (v *namesView) Init() tea.Cmd {
	return tea.Batch(v.form.Init(), loadUserCmd(v.deps.backend), loadOrgCmd(v.deps.backend))
}

func (v *namesView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case userPrefsMsg:
		if msg.err != nil {
			v.err = msg.err
			return nil
		}
		v.form.SetFields(v.merge(func(vals form.Values) { vals["name"], vals["email"] = msg.user.Name, msg.user.Email }))
		return nil
	case orgPrefsMsg:
		if msg.err != nil {
			v.err = msg.err
			return nil
		}
		v.form.SetFields(v.merge(func(vals form.Values) {
			vals["organization.developer"], vals["organization.supportUrl"] = msg.org.Developer, msg.org.SupportURL
		}))
		return nil
	}
	var cmd tea.Cmd
	v.form, cmd = v.form.Update(msg)
	return cmd
}

// merge rebuilds the fields from the values already shown plus one update.
func (v *namesView) merge(update func(form.Values)) []form.Field {
	vals := v.form.Values()
	update(vals)
	return namesFields(
		prefs.User{Name: vals["name"], Email: vals["email"]},
		prefs.Org{Developer: vals["organization.developer"], SupportURL: vals["organization.supportUrl"]},
	)
}

func (v *namesView) SetSize(width, height int) {
	v.width, v.height = width, height
	v.form.SetWidth(min(width, 80))
}

func (v *namesView) SetTheme(theme Theme) {
	v.deps.theme = theme
	v.form.SetStyles(theme.FormStyles())
}

func (v *namesView) Tabs() *TabView { return nil }

func (v *namesView) View() string {
	out := v.form.View()
	if v.err != nil {
		out += "\n\n" + v.deps.theme.Styles().DangerText.Render("Unable to load: "+v.err.Error())
	}
	return out
}
