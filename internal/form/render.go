package form

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the form.
func (m Model) View() string {
	var sections []string
	if m.title != "" {
		sections = append(sections, m.styles.Title.Render(m.title))
	}
	if m.description != "" {
		sections = append(sections, m.styles.Description.Width(m.width).Render(m.description))
	}

	values := m.Values()
	focused, _ := m.current()
	r := renderer{m: m, values: values, focused: focused}
	if body := r.fields(m.fields, m.width); body != "" {
		sections = append(sections, body)
	}
	if buttons := m.renderButtons(focused); buttons != "" {
		sections = append(sections, buttons)
	}
	return strings.Join(sections, "\n\n")
}

type renderer struct {
	m       Model
	values  Values
	focused target
	idx     int
}

func (r *renderer) fields(fields []Field, width int) string {
	var blocks []string
	for _, f := range fields {
		var block string
		switch f.Kind() {
		case KindLeaf:
			block = r.leaf(width)
		case KindRow:
			block = r.row(f.Row, width)
		case KindFieldset:
			block = r.fieldset(f, width)
		case KindCustom:
			if f.visible(r.values) {
				block = f.Custom(width)
			}
		}
		if block != "" {
			blocks = append(blocks, block)
		}
	}
	return strings.Join(blocks, "\n")
}

func (r *renderer) fieldset(f Field, width int) string {
	inner := r.fields(f.Fields, width-4)
	if !f.visible(r.values) {
		return ""
	}
	s := r.m.styles
	body := inner
	if f.Label != "" {
		body = s.Legend.Render(f.Label) + "\n" + inner
	}
	return s.Fieldset.Width(width - 2).Render(body)
}

func (r *renderer) row(members []Field, width int) string {
	widths := rowWidths(members, width)
	cols := make([]string, 0, len(members))
	for i := range members {
		cell := r.leaf(widths[i])
		if cell == "" {
			continue
		}
		cols = append(cols, lipgloss.NewStyle().Width(widths[i]).Render(cell))
		if i < len(members)-1 {
			cols = append(cols, " ")
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// leaf renders the next leaf in render order.
func (r *renderer) leaf(width int) string {
	if r.idx >= len(r.m.order) {
		return ""
	}
	key := r.m.order[r.idx]
	r.idx++
	in := r.m.inputs[key]
	f := in.field
	if !f.visible(r.values) {
		return ""
	}
	s := r.m.styles

	if r.m.mode == Display {
		return s.Label.Render(f.Label+":") + " " + s.Value.Render(displayValue(f, in.value()))
	}

	cursor := "  "
	if r.focused.key == key {
		cursor = s.Cursor.Render("> ")
	}

	var lines []string
	if f.Type == Checkbox {
		box := "[ ]"
		if in.checked {
			box = "[x]"
		}
		lines = append(lines, cursor+box+" "+s.Label.Render(f.Label))
	} else {
		label := s.Label.Render(f.Label)
		if f.Required {
			label += s.Required.Render(" *")
		}
		lines = append(lines, "  "+label)
		if f.editable() {
			lines = append(lines, cursor+in.text.View())
		} else {
			lines = append(lines, "  "+s.Value.Render(displayValue(f, in.value())))
		}
	}
	if f.Hint != "" {
		lines = append(lines, "  "+s.Hint.Render(f.Hint))
	}
	if !r.m.loading {
		if msg := fieldError(f, in.value()); msg != "" {
			lines = append(lines, "  "+s.Error.Render(msg))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderButtons(focused target) string {
	buttons := m.buttons()
	if len(buttons) == 0 {
		return ""
	}
	parts := make([]string, 0, len(buttons)+1)
	for _, b := range buttons {
		style := m.styles.Button
		if focused.key == "" && focused.button == b {
			style = m.styles.ButtonActive
		}
		parts = append(parts, style.Render(m.buttonLabel(b)), " ")
	}
	if m.busy {
		parts = append(parts, m.styles.Hint.Render("working..."))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}
