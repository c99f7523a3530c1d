package form

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/trueblocks/deskshell/internal/events"
)

// EnterStatus is published on the status topic whenever Enter is handled.
const EnterStatus = "Enter key pressed"

// Emitter publishes status events.
type Emitter interface {
	Emit(topic string, payload any)
}

// Options configure a form.
type Options struct {
	Title       string
	Description string
	Fields      []Field
	Mode        Mode
	// SubmitText labels the wizard submit button. Defaults to "Next".
	SubmitText string
	Width      int
	Styles     *Styles
	Emitter    Emitter

	OnSubmit func(Values) tea.Cmd
	OnChange func(name, value string) tea.Cmd
	OnCancel func() tea.Cmd
	OnBack   func() tea.Cmd
}

type loadedMsg struct{ id int64 }

var lastID atomic.Int64

type button int

const (
	buttonEdit button = iota + 1
	buttonCancel
	buttonSave
	buttonBack
	buttonSubmit
)

// target is a focus stop: an input key or a button.
type target struct {
	key    string
	button button
}

type input struct {
	field   Field
	text    textinput.Model
	checked bool
}

func newInput(f Field) *input {
	ti := textinput.New()
	ti.Prompt = ""
	in := &input{text: ti}
	in.apply(f)
	in.set(f.text())
	return in
}

// apply updates everything but the value.
func (in *input) apply(f Field) {
	in.field = f
	in.text.Placeholder = f.Placeholder
	if f.Type == Password {
		in.text.EchoMode = textinput.EchoPassword
	} else {
		in.text.EchoMode = textinput.EchoNormal
	}
}

func (in *input) value() string {
	if in.field.Type == Checkbox {
		return strconv.FormatBool(in.checked)
	}
	return in.text.Value()
}

func (in *input) set(v string) {
	if in.field.Type == Checkbox {
		in.checked, _ = strconv.ParseBool(v)
		return
	}
	in.text.SetValue(v)
}

// Model is a Bubble Tea form component.
type Model struct {
	id          int64
	title       string
	description string
	submitText  string
	styles      Styles
	emitter     Emitter
	onSubmit    func(Values) tea.Cmd
	onChange    func(name, value string) tea.Cmd
	onCancel    func() tea.Cmd
	onBack      func() tea.Cmd

	mode      Mode
	fields    []Field
	autoFocus string
	inputs    map[string]*input
	order     []string
	snapshot  Values

	focus       int
	focusedOnce bool
	loading     bool
	busy        bool
	width       int
}

// New builds a form. It stays in its loading state until the message returned
// by Init has been processed.
func New(opts Options) Model {
	m := Model{
		id:          lastID.Add(1),
		title:       opts.Title,
		description: opts.Description,
		submitText:  opts.SubmitText,
		styles:      DefaultStyles(),
		emitter:     opts.Emitter,
		onSubmit:    opts.OnSubmit,
		onChange:    opts.OnChange,
		onCancel:    opts.OnCancel,
		onBack:      opts.OnBack,
		mode:        opts.Mode,
		inputs:      map[string]*input{},
		loading:     true,
		width:       opts.Width,
	}
	if m.submitText == "" {
		m.submitText = "Next"
	}
	if opts.Styles != nil {
		m.styles = *opts.Styles
	}
	if m.width <= 0 {
		m.width = 60
	}
	m.SetFields(opts.Fields)
	return m
}

// Init finishes loading on the next update.
func (m Model) Init() tea.Cmd {
	id := m.id
	return func() tea.Msg { return loadedMsg{id: id} }
}

// SetFields replaces the field tree. Input values are refreshed from the
// fields only in display mode; while editing, typed text is kept.
func (m *Model) SetFields(fields []Field) {
	var p *preprocessor
	m.fields, p = preprocess(fields)
	m.autoFocus = p.focusKey

	seen := make(map[string]bool)
	order := make([]string, 0, len(m.order))
	for i, l := range leaves(m.fields, "") {
		key, f := l.key, l.field
		if seen[key] {
			key = fmt.Sprintf("%s#%d", key, i)
		}
		order = append(order, key)
		seen[key] = true
		in, ok := m.inputs[key]
		if !ok {
			m.inputs[key] = newInput(f)
			continue
		}
		in.apply(f)
		if m.mode == Display {
			in.set(f.text())
		}
	}
	for key := range m.inputs {
		if !seen[key] {
			delete(m.inputs, key)
		}
	}
	m.order = order
	m.layout()
	m.syncFocus()
}

// SetValue replaces the value of the named field.
func (m *Model) SetValue(name, value string) {
	if in, ok := m.inputs[name]; ok {
		in.set(value)
		in.text.CursorEnd()
	}
}

// SetWidth sets the render width.
func (m *Model) SetWidth(width int) {
	if width > 0 {
		m.width = width
		m.layout()
	}
}

// SetStyles replaces the render styles.
func (m *Model) SetStyles(s Styles) {
	m.styles = s
}

// SetBusy disables every control while an async call is pending.
func (m *Model) SetBusy(busy bool) {
	m.busy = busy
}

// Mode returns the current lifecycle state.
func (m Model) Mode() Mode { return m.mode }

// Loading reports whether the initial load has not finished yet.
func (m Model) Loading() bool { return m.loading }

// Busy reports whether controls are disabled.
func (m Model) Busy() bool { return m.busy }

// AutoFocus returns the key of the field focused on first load.
func (m Model) AutoFocus() string { return m.autoFocus }

// Fields returns the preprocessed tree.
func (m Model) Fields() []Field { return m.fields }

// Values returns the current value of every leaf.
func (m Model) Values() Values {
	out := make(Values, len(m.order))
	for _, key := range m.order {
		out[key] = m.inputs[key].value()
	}
	return out
}

// Focused names the focused input, or the focused button's label.
func (m Model) Focused() string {
	t, ok := m.current()
	if !ok {
		return ""
	}
	if t.key != "" {
		return t.key
	}
	return m.buttonLabel(t.button)
}

// ErrorFor returns the error shown for the named field.
func (m Model) ErrorFor(name string) string {
	in, ok := m.inputs[name]
	if !ok || m.loading {
		return ""
	}
	return fieldError(in.field, in.value())
}

func fieldError(f Field, value string) string {
	if f.Error != "" {
		return f.Error
	}
	if f.Required && strings.TrimSpace(value) == "" {
		return f.Label + " is required"
	}
	return ""
}

// Update handles loading, keys and focus.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.id != m.id {
			return m, nil
		}
		m.loading = false
		if !m.focusedOnce && len(m.fields) > 0 {
			m.focusedOnce = true
			m.focusFirst()
		}
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			return m.handle(EventEnter)
		case "esc":
			return m.handle(EventEscape)
		case "tab", "down":
			m.moveFocus(1)
			return m, nil
		case "shift+tab", "up":
			m.moveFocus(-1)
			return m, nil
		}
		return m.updateInput(msg)
	}
	return m, nil
}

// Press activates a button as if it had been clicked.
func (m Model) Press(ev Event) (Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	return m.handle(ev)
}

func (m Model) handle(ev Event) (Model, tea.Cmd) {
	prev := m.mode
	next, eff := Transition(prev, ev, m.context())

	if eff.Has(EffectStatus) && m.emitter != nil {
		m.emitter.Emit(events.StatusLog, EnterStatus)
	}
	if eff.Has(EffectDiscard) && m.snapshot != nil {
		m.restore(m.snapshot)
	}
	if prev == Display && next == Edit {
		m.snapshot = m.Values()
	}
	if eff.Has(EffectFocusSubmit) {
		m.focusButton(buttonSave)
	}

	var cmds []tea.Cmd
	if eff.Has(EffectCommit) && m.onSubmit != nil {
		cmds = append(cmds, m.onSubmit(m.Values()))
	}
	if next == Display {
		m.snapshot = nil
	}
	m.mode = next
	if next != prev {
		m.focus = 0
	}
	if eff.Has(EffectFocusFirst) {
		m.focusFirst()
	}
	m.syncFocus()

	if eff.Has(EffectCancel) && m.onCancel != nil {
		cmds = append(cmds, m.onCancel())
	}
	if eff.Has(EffectBack) && m.onBack != nil {
		cmds = append(cmds, m.onBack())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	t, ok := m.current()
	if !ok || t.key == "" {
		return m, nil
	}
	in := m.inputs[t.key]
	before := in.value()

	var cmd tea.Cmd
	switch {
	case in.field.Type == Checkbox:
		if msg.String() == " " {
			in.checked = !in.checked
		}
	case in.field.Type == Number && msg.Type == tea.KeyRunes && !numeric(msg.Runes):
		return m, nil
	default:
		in.text, cmd = in.text.Update(msg)
	}

	if after := in.value(); after != before && m.onChange != nil {
		cmd = tea.Batch(cmd, m.onChange(t.key, after))
	}
	return m, cmd
}

func numeric(runes []rune) bool {
	for _, r := range runes {
		if !unicode.IsDigit(r) && r != '.' && r != '-' {
			return false
		}
	}
	return true
}

func (m Model) context() Context {
	ctx := Context{
		Editable:  m.editable(),
		HasCancel: m.onCancel != nil,
		HasBack:   m.onBack != nil,
	}
	if t, ok := m.current(); ok && t.key == "" {
		switch t.button {
		case buttonSave, buttonSubmit:
			ctx.Focus = FocusSubmit
		case buttonEdit:
			ctx.Focus = FocusEdit
		case buttonCancel:
			ctx.Focus = FocusCancel
		case buttonBack:
			ctx.Focus = FocusBack
		}
	}
	return ctx
}

func (m Model) editable() bool {
	for _, key := range m.order {
		if m.inputs[key].field.editable() {
			return true
		}
	}
	return false
}

func (m Model) buttons() []button {
	switch m.mode {
	case Display:
		if m.editable() {
			return []button{buttonEdit}
		}
		return nil
	case Edit:
		return []button{buttonCancel, buttonSave}
	default:
		if m.onBack != nil {
			return []button{buttonBack, buttonSubmit}
		}
		return []button{buttonSubmit}
	}
}

func (m Model) buttonLabel(b button) string {
	switch b {
	case buttonEdit:
		return "Edit"
	case buttonCancel:
		return "Cancel"
	case buttonSave:
		return "Save"
	case buttonBack:
		return "Back"
	case buttonSubmit:
		return m.submitText
	}
	return ""
}

// targets lists focus stops in order: visible editable inputs, then buttons.
func (m Model) targets() []target {
	var out []target
	if m.mode != Display {
		values := m.Values()
		for _, key := range m.order {
			f := m.inputs[key].field
			if f.editable() && f.visible(values) {
				out = append(out, target{key: key})
			}
		}
	}
	for _, b := range m.buttons() {
		out = append(out, target{button: b})
	}
	return out
}

func (m Model) current() (target, bool) {
	ts := m.targets()
	if len(ts) == 0 {
		return target{}, false
	}
	if m.focus < 0 || m.focus >= len(ts) {
		return ts[0], true
	}
	return ts[m.focus], true
}

func (m *Model) moveFocus(delta int) {
	n := len(m.targets())
	if n == 0 {
		return
	}
	m.focus = ((m.focus+delta)%n + n) % n
	m.syncFocus()
}

// focusFirst focuses the auto-focus target. Without one it prefers the submit
// button, then the first stop.
func (m *Model) focusFirst() {
	m.focus = 0
	if m.autoFocus == "" {
		m.focusButton(buttonSubmit)
	}
	for i, t := range m.targets() {
		if t.key != "" && t.key == m.autoFocus {
			m.focus = i
			break
		}
	}
	m.syncFocus()
}

func (m *Model) focusButton(b button) {
	for i, t := range m.targets() {
		if t.key == "" && t.button == b {
			m.focus = i
			return
		}
	}
}

// syncFocus clamps the focus index and moves the text cursor to match.
func (m *Model) syncFocus() {
	ts := m.targets()
	if m.focus >= len(ts) || m.focus < 0 {
		m.focus = 0
	}
	var focused string
	if len(ts) > 0 {
		focused = ts[m.focus].key
	}
	for key, in := range m.inputs {
		if key == focused && focused != "" {
			in.text.Focus()
		} else {
			in.text.Blur()
		}
	}
}

func (m *Model) restore(values Values) {
	for key, v := range values {
		if in, ok := m.inputs[key]; ok {
			in.set(v)
		}
	}
}

// layout sizes text inputs to their share of the width.
func (m *Model) layout() {
	var walk func(fields []Field, width int, idx *int)
	walk = func(fields []Field, width int, idx *int) {
		for _, f := range fields {
			switch f.Kind() {
			case KindLeaf:
				m.sizeInput(*idx, width)
				*idx++
			case KindRow:
				for _, w := range rowWidths(f.Row, width) {
					m.sizeInput(*idx, w)
					*idx++
				}
			case KindFieldset:
				walk(f.Fields, width-4, idx)
			}
		}
	}
	idx := 0
	walk(m.fields, m.width, &idx)
}

func (m *Model) sizeInput(idx, width int) {
	if idx >= len(m.order) {
		return
	}
	w := width - 4
	if w < 8 {
		w = 8
	}
	m.inputs[m.order[idx]].text.Width = w
}

// rowWidths splits width between row members by flex, with one column of gap.
func rowWidths(members []Field, width int) []int {
	total := 0
	for _, f := range members {
		total += f.flex()
	}
	avail := width - (len(members) - 1)
	out := make([]int, len(members))
	used := 0
	for i, f := range members {
		out[i] = avail * f.flex() / total
		used += out[i]
	}
	out[len(out)-1] += avail - used
	return out
}
