package form

import (
	"fmt"
	"strings"
)

// Preprocess groups consecutive SameLine leaves into synthetic rows, recursing
// into fieldsets with their own grouping scope. It also returns the name of the
// auto-focus target: the first editable leaf of the first emitted group that
// has one. Running Preprocess on its own output changes nothing.
func Preprocess(fields []Field) ([]Field, string) {
	out, p := preprocess(fields)
	return out, p.focusName
}

func preprocess(fields []Field) ([]Field, *preprocessor) {
	p := &preprocessor{}
	out := p.walk(fields, "")
	return out, p
}

type preprocessor struct {
	focusName string
	// focusKey is the target's input key, see leaves.
	focusKey string
	found    bool
}

func (p *preprocessor) walk(fields []Field, scope string) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, 0, len(fields))
	var group []Field
	sets := newScopes(scope)

	for i, f := range fields {
		switch f.Kind() {
		case KindFieldset:
			f.Fields = p.walk(f.Fields, sets.next(f))
			out = append(out, f)
			continue
		case KindRow:
			p.consider(f.Row, scope)
			out = append(out, f)
			continue
		case KindCustom:
			out = append(out, f)
			continue
		}

		group = append(group, f)
		if i+1 < len(fields) && continuesLine(fields[i+1]) {
			continue
		}

		if len(group) > 1 {
			out = append(out, Field{Row: group})
		} else {
			out = append(out, group[0])
		}
		p.consider(group, scope)
		group = nil
	}
	return out
}

// consider records the first editable leaf of an emitted group, once.
func (p *preprocessor) consider(group []Field, scope string) {
	if p.found {
		return
	}
	for _, f := range group {
		if f.editable() {
			p.focusName = f.Name
			p.focusKey = scopedKey(scope, f.Name)
			p.found = true
			return
		}
	}
}

func continuesLine(next Field) bool {
	return next.Kind() == KindLeaf && next.SameLine
}

// leaf is a leaf in render order with its input key.
type leaf struct {
	key   string
	field Field
}

// leaves flattens the tree into leaves in render order. Every fieldset opens a
// key scope, so a "street" leaf in a "Home" fieldset is keyed "home.street".
// Unnamed leaves are keyed by their position.
func leaves(fields []Field, scope string) []leaf {
	var out []leaf
	sets := newScopes(scope)
	add := func(f Field) {
		name := f.Name
		if name == "" {
			name = fmt.Sprintf("#%d", len(out))
		}
		out = append(out, leaf{key: scopedKey(scope, name), field: f})
	}
	for _, f := range fields {
		switch f.Kind() {
		case KindLeaf:
			add(f)
		case KindRow:
			for _, member := range f.Row {
				add(member)
			}
		case KindFieldset:
			inner := leaves(f.Fields, sets.next(f))
			if f.Visible != nil {
				for i := range inner {
					inner[i].field.Visible = both(f.Visible, inner[i].field.Visible)
				}
			}
			out = append(out, inner...)
		}
	}
	return out
}

// scopes names the fieldsets of one sibling group: the fieldset's Name, else
// its Label in lower case with dashes, else its position. A repeated segment
// gets the fieldset's position appended.
type scopes struct {
	parent string
	used   map[string]bool
	n      int
}

func newScopes(parent string) *scopes {
	return &scopes{parent: parent, used: map[string]bool{}}
}

func (s *scopes) next(f Field) string {
	s.n++
	seg := f.Name
	if seg == "" {
		seg = strings.ToLower(strings.Join(strings.Fields(f.Label), "-"))
	}
	if seg == "" || s.used[seg] {
		seg = fmt.Sprintf("%s#%d", seg, s.n)
	}
	s.used[seg] = true
	return scopedKey(s.parent, seg)
}

func scopedKey(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "." + name
}

// both hides a fieldset's leaves along with the fieldset.
func both(outer, inner Visibility) Visibility {
	if inner == nil {
		return outer
	}
	return func(v Values) bool { return outer(v) && inner(v) }
}
