package form

import (
	"fmt"
	"strconv"
	"strings"
)

// InputType selects the control used for a leaf in edit and wizard modes.
type InputType int

const (
	Text InputType = iota
	Password
	Number
	Checkbox
)

// Values maps input keys to their current text. A top-level leaf is keyed by
// its Name; a leaf inside a fieldset is prefixed by the fieldset's scope, as in
// "home.street". Checkboxes hold "true" or "false".
type Values map[string]string

// Bool reports whether the named checkbox is ticked.
func (v Values) Bool(name string) bool {
	b, _ := strconv.ParseBool(v[name])
	return b
}

// Visibility decides whether a field is shown given the form's current values.
type Visibility func(Values) bool

// Show returns a constant Visibility.
func Show(visible bool) Visibility {
	return func(Values) bool { return visible }
}

// Kind classifies a node of the field tree.
type Kind int

const (
	KindLeaf Kind = iota
	KindFieldset
	KindCustom
	KindRow
)

func (k Kind) String() string {
	switch k {
	case KindFieldset:
		return "fieldset"
	case KindCustom:
		return "custom"
	case KindRow:
		return "row"
	default:
		return "leaf"
	}
}

// Field is a node in a form's field tree. Callers rebuild the tree whenever
// their data changes and hand it to SetFields.
type Field struct {
	Name        string
	Label       string
	Value       any
	Placeholder string
	Hint        string
	Error       string
	Type        InputType

	Required bool
	ReadOnly bool
	Disabled bool
	// SameLine lays the field out next to the previous leaf sibling.
	SameLine bool
	// Visible hides the field when it returns false. Nil means visible.
	Visible Visibility
	// Flex is the field's share of a row's width. Zero counts as one.
	Flex int

	// Fields makes the node a fieldset titled by Label when it is not empty.
	// The fieldset's Name, or else its Label, scopes the keys of its leaves.
	Fields []Field
	// Custom makes the node render itself at the given width.
	Custom func(width int) string
	// Row holds the members of a synthetic multi-field line. It is only set
	// by Preprocess.
	Row []Field
}

// Kind reports what the node is.
func (f Field) Kind() Kind {
	switch {
	case len(f.Row) > 0:
		return KindRow
	case len(f.Fields) > 0:
		return KindFieldset
	case f.Custom != nil:
		return KindCustom
	default:
		return KindLeaf
	}
}

// editable reports whether a leaf accepts input.
func (f Field) editable() bool {
	return f.Kind() == KindLeaf && !f.ReadOnly && !f.Disabled
}

func (f Field) visible(values Values) bool {
	return f.Visible == nil || f.Visible(values)
}

func (f Field) flex() int {
	if f.Flex <= 0 {
		return 1
	}
	return f.Flex
}

// text renders Value as an input string.
func (f Field) text() string {
	switch v := f.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// displayValue is what display mode prints after the label.
func displayValue(f Field, raw string) string {
	if f.Type == Checkbox {
		if b, _ := strconv.ParseBool(raw); b {
			return "Yes"
		}
		return "No"
	}
	if f.Type == Password && raw != "" {
		return strings.Repeat("•", 8)
	}
	if strings.TrimSpace(raw) == "" {
		return "N/A"
	}
	return raw
}
