package ui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TabView is a row of named tabs for one route. The active tab survives a
// restart through the store's last-tab record.
type TabView struct {
	route  string
	labels []string
	active int
}

// NewTabView opens on last when it names a tab, otherwise on the first one.
func NewTabView(route string, labels []string, last string) TabView {
	t := TabView{route: route, labels: labels}
	if i := slices.Index(labels, last); i >= 0 {
		t.active = i
	}
	return t
}

// Route returns the route the tabs belong to.
func (t TabView) Route() string { return t.route }

// Active returns the label of the showing tab, or "" when there are none.
func (t TabView) Active() string {
	if len(t.labels) == 0 {
		return ""
	}
	return t.labels[t.active]
}

// Cycle moves one tab forward, or backward when reverse is set, wrapping at
// both ends. It returns the new active label.
func (t *TabView) Cycle(reverse bool) string {
	n := len(t.labels)
	if n == 0 {
		return ""
	}
	if reverse {
		t.active = (t.active - 1 + n) % n
	} else {
		t.active = (t.active + 1) % n
	}
	return t.Active()
}

// View renders the tab strip.
func (t TabView) View(styles Styles, width int) string {
	parts := make([]string, 0, len(t.labels))
	for i, label := range t.labels {
		style := styles.TabInactive
		if i == t.active {
			style = styles.TabActive
		}
		parts = append(parts, style.Render(routeTitle(label)))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	rule := styles.FaintText.Render(strings.Repeat("─", max(0, width)))
	return row + "\n" + rule
}
