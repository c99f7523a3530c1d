package wizard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trueblocks/deskshell/internal/backend"
	"github.com/trueblocks/deskshell/internal/form"
)

// QuickFillRPC is put into the RPC field by ctrl+l.
const QuickFillRPC = "http://localhost:23456"

const callTimeout = 15 * time.Second

// DoneMsg is sent once setup is complete. Route is where the shell should go.
type DoneMsg struct {
	Route string
}

type resultMsg struct {
	seq   int
	st    State
	route string
	done  bool
}

type submitMsg struct {
	step   Step
	values form.Values
}

type backMsg struct{}

// Options configure the wizard view.
type Options struct {
	Emitter form.Emitter
	Width   int
	Styles  *form.Styles
}

// Model is the Bubble Tea view of the wizard.
type Model struct {
	machine Machine
	st      State
	// seq identifies the latest backend request; older results are dropped.
	seq     int
	spinner spinner.Model
	form    form.Model
	opts    Options
}

// New builds the wizard. Init starts loading.
func New(b backend.Backend, opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	m := Model{
		machine: NewMachine(b),
		st:      NewState(),
		spinner: sp,
		opts:    opts,
	}
	m.form = m.buildForm()
	return m
}

// Init loads the wizard state.
func (m *Model) Init() tea.Cmd {
	mach := m.machine
	return tea.Batch(m.spinner.Tick, m.run(func(ctx context.Context, st State) (State, string, bool) {
		return mach.Load(ctx, st), "", false
	}))
}

// State returns the current wizard state.
func (m Model) State() State { return m.st }

// Step returns the page being shown.
func (m Model) Step() Step { return m.st.UI.Step }

// Form returns the current step's form.
func (m Model) Form() form.Model { return m.form }

// SetWidth resizes the step form.
func (m *Model) SetWidth(width int) {
	m.opts.Width = width
	m.form.SetWidth(width)
}

// SetStyles replaces the form styles.
func (m *Model) SetStyles(s form.Styles) {
	m.opts.Styles = &s
	m.form.SetStyles(s)
}

// run starts op against a copy of the state under a new sequence number.
func (m *Model) run(op func(context.Context, State) (State, string, bool)) tea.Cmd {
	m.seq++
	seq, st := m.seq, m.st
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		next, route, done := op(ctx, st)
		return resultMsg{seq: seq, st: next, route: route, done: done}
	}
}

// Update handles loading results, step submissions and keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		prev := m.st
		m.st = msg.st
		m.st.UI.Loading = false
		if msg.done {
			route := msg.route
			return m, func() tea.Msg { return DoneMsg{Route: route} }
		}
		return m, m.refresh(prev.UI.InitialLoading || prev.UI.Step != m.st.UI.Step)

	case submitMsg:
		if m.st.UI.Loading || msg.step != m.st.UI.Step {
			return m, nil
		}
		m.st.Data = merge(m.st.Data, msg.values)
		m.st.UI.Loading = true
		m.form.SetBusy(true)
		return m, tea.Batch(m.spinner.Tick, m.run(m.submitOp(msg.step)))

	case backMsg:
		if m.st.UI.Loading {
			return m, nil
		}
		m.st.Data = merge(m.st.Data, m.form.Values())
		m.st = m.machine.Back(m.st)
		return m, m.refresh(true)

	case spinner.TickMsg:
		if !m.st.UI.InitialLoading && !m.st.UI.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.st.UI.InitialLoading {
			return m, nil
		}
		if msg.String() == "ctrl+l" && m.st.UI.Step == StepConnectivity {
			m.form.SetValue(FieldRPC, QuickFillRPC)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) submitOp(step Step) func(context.Context, State) (State, string, bool) {
	mach := m.machine
	switch step {
	case StepIdentity:
		return func(ctx context.Context, st State) (State, string, bool) {
			return mach.SubmitIdentity(ctx, st), "", false
		}
	case StepConnectivity:
		return func(ctx context.Context, st State) (State, string, bool) {
			return mach.SubmitConnectivity(ctx, st), "", false
		}
	default:
		return func(ctx context.Context, st State) (State, string, bool) {
			next, route := mach.Complete(ctx, st)
			return next, route, route != ""
		}
	}
}

// refresh rebuilds the form for a new step, or re-applies errors in place.
func (m *Model) refresh(rebuild bool) tea.Cmd {
	if rebuild {
		m.form = m.buildForm()
		return m.form.Init()
	}
	m.form.SetFields(m.fields())
	m.form.SetBusy(false)
	return nil
}

func (m Model) buildForm() form.Model {
	step := m.st.UI.Step
	opts := form.Options{
		Title:       fmt.Sprintf("Step %d of 3: %s", int(step)+1, step),
		Description: description(step),
		Fields:      m.fields(),
		Mode:        form.Wizard,
		Width:       m.opts.Width,
		Styles:      m.opts.Styles,
		Emitter:     m.opts.Emitter,
		OnSubmit: func(v form.Values) tea.Cmd {
			return func() tea.Msg { return submitMsg{step: step, values: v} }
		},
	}
	if step > StepIdentity {
		opts.OnBack = func() tea.Cmd {
			return func() tea.Msg { return backMsg{} }
		}
	}
	if step == StepComplete {
		opts.SubmitText = "Get Started"
	}
	return form.New(opts)
}

func description(step Step) string {
	switch step {
	case StepConnectivity:
		return "Point the shell at a JSON-RPC endpoint. Press ctrl+l to use a local node."
	case StepComplete:
		return "Setup is complete. Review your settings."
	default:
		return "Tell us who you are."
	}
}

func (m Model) fields() []form.Field {
	d, v := m.st.Data, m.st.Validation
	switch m.st.UI.Step {
	case StepConnectivity:
		return []form.Field{
			{Name: FieldRPC, Label: "RPC URL", Value: d.RPCURL, Placeholder: QuickFillRPC, Required: true, Error: v[FieldRPC]},
			{Name: FieldChainName, Label: "Chain", Value: d.ChainName, Placeholder: "mainnet", Error: v[FieldChainName]},
			{Name: FieldChainID, Label: "Chain ID", Value: d.ChainID, Type: form.Number, SameLine: true, Error: v[FieldChainID]},
			{Name: FieldSymbol, Label: "Symbol", Value: d.Symbol, Placeholder: "ETH"},
			{Name: FieldRemoteExplorer, Label: "Explorer", Value: d.RemoteExplorer, SameLine: true, Flex: 2},
		}
	case StepComplete:
		return []form.Field{{Name: "summary", Custom: m.summary}}
	default:
		return []form.Field{
			{Name: FieldName, Label: "Name", Value: d.Name, Required: true, Error: v[FieldName]},
			{Name: FieldEmail, Label: "Email", Value: d.Email, Required: true, SameLine: true, Error: v[FieldEmail]},
		}
	}
}

func (m Model) summary(width int) string {
	d := m.st.Data
	rows := [][2]string{
		{"Name", d.Name},
		{"Email", d.Email},
		{"RPC", d.RPCURL},
	}
	if d.ChainName != "" {
		rows = append(rows, [2]string{"Chain", d.ChainName})
	}
	label := lipgloss.NewStyle().Bold(true).Width(8)
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(label.Render(r[0]) + r[1] + "\n")
	}
	return lipgloss.NewStyle().Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

// merge copies form values into d.
func merge(d Data, v form.Values) Data {
	set := func(dst *string, key string) {
		if val, ok := v[key]; ok {
			*dst = val
		}
	}
	set(&d.Name, FieldName)
	set(&d.Email, FieldEmail)
	set(&d.RPCURL, FieldRPC)
	set(&d.ChainName, FieldChainName)
	set(&d.ChainID, FieldChainID)
	set(&d.Symbol, FieldSymbol)
	set(&d.RemoteExplorer, FieldRemoteExplorer)
	return d
}

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

// View renders the wizard.
func (m Model) View() string {
	if m.st.UI.InitialLoading {
		return m.spinner.View() + " Loading setup state..."
	}
	var parts []string
	if m.st.Err != "" {
		parts = append(parts, errorStyle.Render(m.st.Err))
	}
	parts = append(parts, m.form.View())
	if m.st.UI.Loading {
		parts = append(parts, m.spinner.View()+" Working...")
	}
	return strings.Join(parts, "\n\n")
}
