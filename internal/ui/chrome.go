package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/trueblocks/deskshell/internal/state"
)

// renderHeader draws the title bar: app name, route, readiness and dev badge.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bar := newBarPainter(m.theme.Surface)

	title := routeTitle(m.route)
	if tabs := m.activeTabs(); tabs != nil && tabs.Active() != "" {
		title += " / " + routeTitle(tabs.Active())
	}
	parts := []string{
		bar.paint("deskshell", styles.Logo),
		bar.paint(title, styles.Text.Bold(true)),
		m.readinessBadge(m.store.Snapshot(), styles, bar),
	}
	if m.dispatcher.Dev() {
		parts = append(parts, bar.paint("DEV", styles.WarningText.Bold(true)))
	}
	return styles.Header.Width(m.width).Render(bar.join(parts, 2))
}

func (m Model) readinessBadge(snap state.Snapshot, styles Styles, bar barPainter) string {
	switch {
	case snap.IsOffline():
		return bar.paint("● backend offline", styles.DangerText)
	case !snap.HasReadiness:
		return bar.paint("● checking", styles.FaintText)
	case snap.Initialized:
		return bar.paint("● ready", styles.SuccessText)
	default:
		return bar.paint("● setup required", styles.WarningText)
	}
}

// renderStatusBar draws the last status message, dirty files and key hints.
func (m Model) renderStatusBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bar := newBarPainter(m.theme.Surface)

	var left []string
	if m.status != "" {
		left = append(left, bar.paint(truncate(m.status, m.width/2), styles.AccentText))
	}
	if dirty := m.dirtyFiles(); len(dirty) > 0 {
		left = append(left, bar.paint(strings.Join(dirty, " ")+" *", styles.WarningText))
	}

	h := help.New()
	h.Styles.ShortKey = styles.AccentText
	h.Styles.ShortDesc = styles.MutedText
	h.Styles.ShortSeparator = styles.FaintText
	right := h.ShortHelpView(m.keys.ShortHelp()) + bar.paint("  "+m.theme.Name, styles.FaintText)

	leftText := bar.join(left, 2)
	gap := m.width - lipgloss.Width(leftText) - lipgloss.Width(right) - 2
	line := leftText + bar.gap(gap) + right
	return styles.Footer.Width(m.width).Render(line)
}

func (m Model) dirtyFiles() []string {
	var out []string
	for path, dirty := range m.dirty {
		if dirty {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

// renderBody lays the menu, the active view and the help panel side by side.
func (m Model) renderBody(height int) string {
	snap := m.store.Snapshot()
	styles := m.theme.Styles()

	var cols []string
	cols = append(cols, renderMenu(m.menu, m.route, snap.MenuCollapsed, styles, height))

	content := ""
	if m.view != nil {
		content = m.view.View()
	}
	contentStyle := lipgloss.NewStyle().
		Width(m.contentWidth()).
		Height(height).
		MaxHeight(height).
		Padding(0, 1)
	cols = append(cols, contentStyle.Render(content))

	if m.helpVisible() {
		cols = append(cols, styles.Panel.
			Width(HelpWidth-2).
			Height(max(1, height-2)).
			Render(m.help.View()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m Model) helpVisible() bool {
	return !m.store.Snapshot().HelpCollapsed && m.width >= LayoutCompactWidth
}

func (m Model) menuWidth() int {
	if m.store.Snapshot().MenuCollapsed {
		return MenuCollapsedWidth
	}
	return MenuWidth
}

// contentWidth is what remains for the view between the panels.
func (m Model) contentWidth() int {
	w := m.width - m.menuWidth() - 2
	if m.helpVisible() {
		w -= HelpWidth
	}
	return max(20, w)
}
