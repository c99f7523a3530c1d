package ui

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// routeTitle names a route for the header and menu: "/" is Home,
// "/settings" is Settings.
func routeTitle(route string) string {
	name := strings.Trim(strings.TrimSpace(route), "/")
	if name == "" {
		return "Home"
	}
	name = strings.NewReplacer("-", " ", "_", " ", "/", " ").Replace(name)
	return cases.Title(language.English).String(name)
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}
