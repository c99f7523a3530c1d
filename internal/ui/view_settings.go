package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trueblocks/deskshell/internal/events"
	"github.com/trueblocks/deskshell/internal/form"
	"github.com/trueblocks/deskshell/internal/hotkeys"
	"github.com/trueblocks/deskshell/internal/prefs"
	"github.com/trueblocks/deskshell/internal/validation"
)

const (
	tabUser = "user"
	tabOrg  = "org"

	savedStatus = "your edits were saved"
)

// settingsFiles names the record each tab edits, for the dirty marker.
var settingsFiles = map[string]string{
	tabUser: "user.toml",
	tabOrg:  "org.toml",
}

type settingsSavedMsg struct {
	tab    string
	values form.Values
	err    error
}

// settingsView edits the user and organization records, one form per tab.
type settingsView struct {
	deps   viewDeps
	tabs   TabView
	forms  map[string]*form.Model
	width  int
	height int

	org prefs.Org
	err error
}

func newSettingsView(deps viewDeps) *settingsView {
	route := hotkeys.RouteSettings
	v := &settingsView{
		deps:  deps,
		tabs:  NewTabView(route, []string{tabUser, tabOrg}, deps.store.LastTab(route)),
		forms: make(map[string]*form.Model, 2),
	}
	styles := deps.theme.FormStyles()
	user := form.New(form.Options{
		Title:       "Your Settings",
		Description: "Press enter to edit, enter again to save, esc to cancel.",
		Mode:        form.Display,
		Fields:      userFields(form.Values{}, nil),
		Styles:      &styles,
		Emitter:     deps.bus,
		OnSubmit:    v.saveUser,
		OnChange:    v.changed(tabUser),
	})
	org := form.New(form.Options{
		Title:       "Edit / Manage Your Settings",
		Description: "Organization defaults shared by every user.",
		Mode:        form.Display,
		Fields:      orgFields(prefs.Org{}, nil),
		Styles:      &styles,
		Emitter:     deps.bus,
		OnSubmit:    v.saveOrg,
		OnChange:    v.changed(tabOrg),
	})
	v.forms[tabUser] = &user
	v.forms[tabOrg] = &org
	return v
}

func userFields(vals form.Values, verr *validation.Error) []form.Field {
	fields := []form.Field{
		{Name: "name", Label: "Name", Value: vals["name"], Placeholder: "Enter your name", Required: true},
		{Name: "email", Label: "Email", Value: vals["email"], Placeholder: "Enter your email", Required: true, SameLine: true},
	}
	if verr != nil {
		for i := range fields {
			if fields[i].Name == verr.Field {
				fields[i].Error = verr.Message
			}
		}
	}
	return fields
}

func orgFields(org prefs.Org, verr *validation.Error) []form.Field {
	fields := []form.Field{
		{Name: "developer", Label: "Organization Name", Value: org.Developer, Placeholder: "Enter your organization name", Required: true},
		{Name: "supportUrl", Label: "Support", Value: org.SupportURL, Placeholder: "Enter your organization support url", Required: true},
		{Label: "Options", Fields: []form.Field{
			{Name: "language", Label: "Language", Value: org.Language, Placeholder: "Enter your language", Required: true},
			{Name: "theme", Label: "Theme", Value: org.Theme, Placeholder: "Enter your theme", Required: true, SameLine: true},
			{Name: "logLevel", Label: "Log Level", Value: org.LogLevel, Placeholder: "Enter your log level", Required: true},
			{Name: "version", Label: "Version", Value: org.Version, ReadOnly: true, SameLine: true},
		}},
	}
	if verr != nil && verr.Field == "supportUrl" {
		fields[1].Error = verr.Message
	}
	return fields
}

func (v *settingsView) Init() tea.Cmd {
	return tea.Batch(
		v.forms[tabUser].Init(),
		v.forms[tabOrg].Init(),
		loadUserCmd(v.deps.backend),
		loadOrgCmd(v.deps.backend),
	)
}

func (v *settingsView) Tabs() *TabView { return &v.tabs }

func (v *settingsView) changed(tab string) func(name, value string) tea.Cmd {
	return func(string, string) tea.Cmd {
		v.deps.bus.Emit(events.FileStatus, events.FileStatusPayload{Path: settingsFiles[tab], Dirty: true})
		return nil
	}
}

func (v *settingsView) saveUser(vals form.Values) tea.Cmd {
	b := v.deps.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), CallTimeout)
		defer cancel()
		err := b.SetUserInfo(ctx, vals["name"], vals["email"])
		return settingsSavedMsg{tab: tabUser, values: vals, err: err}
	}
}

func (v *settingsView) saveOrg(vals form.Values) tea.Cmd {
	b := v.deps.backend
	org := v.org
	org.Developer = vals["developer"]
	org.SupportURL = vals["supportUrl"]
	org.Language = vals["options.language"]
	org.Theme = vals["options.theme"]
	org.LogLevel = vals["options.logLevel"]
	return func() tea.Msg {
		if verr := validation.URL("supportUrl", org.SupportURL); verr != nil {
			return settingsSavedMsg{tab: tabOrg, values: vals, err: verr}
		}
		ctx, cancel := context.WithTimeout(context.Background(), CallTimeout)
		defer cancel()
		err := b.SetOrgPreferences(ctx, org)
		return settingsSavedMsg{tab: tabOrg, values: vals, err: err}
	}
}

func (v *settingsView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case userPrefsMsg:
		if msg.err != nil {
			v.err = msg.err
			return nil
		}
		v.forms[tabUser].SetFields(userFields(form.Values{"name": msg.user.Name, "email": msg.user.Email}, nil))
		return nil

	case orgPrefsMsg:
		if msg.err != nil {
			v.err = msg.err
			return nil
		}
		v.org = msg.org
		v.forms[tabOrg].SetFields(orgFields(msg.org, nil))
		return nil

	case settingsSavedMsg:
		return v.saved(msg)
	}

	f := v.forms[v.tabs.Active()]
	if f == nil {
		return nil
	}
	var cmd tea.Cmd
	*f, cmd = f.Update(msg)
	if _, ok := msg.(tea.KeyMsg); !ok {
		// Loading messages carry a form id, so both forms must see them.
		for tab, other := range v.forms {
			if tab != v.tabs.Active() {
				var c tea.Cmd
				*other, c = other.Update(msg)
				cmd = tea.Batch(cmd, c)
			}
		}
	}
	return cmd
}

// saved reloads the record on success. A field-scoped failure reopens the
// form in edit mode with the attempted values and the error inline.
func (v *settingsView) saved(msg settingsSavedMsg) tea.Cmd {
	f := v.forms[msg.tab]
	if msg.err == nil {
		v.deps.bus.Emit(events.StatusLog, savedStatus)
		v.deps.bus.Emit(events.FileStatus, events.FileStatusPayload{Path: settingsFiles[msg.tab], Dirty: false})
		if msg.tab == tabUser {
			return loadUserCmd(v.deps.backend)
		}
		return loadOrgCmd(v.deps.backend)
	}

	v.deps.logger.Warn("settings save failed", "tab", msg.tab, "err", msg.err)
	var verr *validation.Error
	if !errors.As(msg.err, &verr) {
		v.deps.bus.Emit(events.StatusLog, "save failed: "+msg.err.Error())
		return nil
	}
	if msg.tab == tabUser {
		f.SetFields(userFields(msg.values, verr))
	} else {
		org := v.org
		org.Developer = msg.values["developer"]
		org.SupportURL = msg.values["supportUrl"]
		org.Language = msg.values["options.language"]
		org.Theme = msg.values["options.theme"]
		org.LogLevel = msg.values["options.logLevel"]
		f.SetFields(orgFields(org, verr))
	}
	var cmd tea.Cmd
	*f, cmd = f.Press(form.EventEditPressed)
	return cmd
}

func (v *settingsView) SetSize(width, height int) {
	v.width, v.height = width, height
	for _, f := range v.forms {
		f.SetWidth(min(width, 80))
	}
}

func (v *settingsView) SetTheme(theme Theme) {
	v.deps.theme = theme
	for _, f := range v.forms {
		f.SetStyles(theme.FormStyles())
	}
}

func (v *settingsView) View() string {
	styles := v.deps.theme.Styles()
	out := v.tabs.View(styles, v.width) + "\n"
	if f := v.forms[v.tabs.Active()]; f != nil {
		out += f.View()
	}
	if v.err != nil {
		out += "\n\n" + styles.DangerText.Render("Unable to load settings: "+v.err.Error())
	}
	return out
}
