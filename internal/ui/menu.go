package ui

import (
	"strings"

	"github.com/trueblocks/deskshell/internal/hotkeys"
)

type menuItem struct {
	route string
	label string
	chord string
}

// menuItems lists the navigation bindings in registration order.
func menuItems(bindings []hotkeys.Binding) []menuItem {
	var items []menuItem
	for _, b := range bindings {
		if b.Hotkey.Kind != hotkeys.KindNavigation || len(b.Chords) == 0 {
			continue
		}
		items = append(items, menuItem{
			route: b.Hotkey.Route,
			label: b.Hotkey.Label,
			chord: b.Chords[0].Key,
		})
	}
	return items
}

// renderMenu draws the menu panel. Collapsed, it shows only the chords.
func renderMenu(items []menuItem, active string, collapsed bool, styles Styles, height int) string {
	outer := MenuWidth
	if collapsed {
		outer = MenuCollapsedWidth
	}
	// Border and padding take two columns each.
	width := outer - 4
	lines := make([]string, 0, len(items)+1)
	for _, it := range items {
		text := strings.ToUpper(it.chord)
		if !collapsed {
			text = padRight(text, 4) + it.label
		}
		text = padRight(truncate(text, width), width)
		if it.route == active {
			lines = append(lines, styles.Selected.Render(text))
		} else {
			lines = append(lines, styles.MutedText.Render(text))
		}
	}
	return styles.Panel.
		Width(outer - 2).
		Height(max(1, height-2)).
		Render(strings.Join(lines, "\n"))
}
