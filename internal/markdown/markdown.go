// Package markdown resolves help pages for a route and tab.
package markdown

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

//go:embed help/*.md
var embedded embed.FS

// Help returns the built-in help pages.
func Help() fs.FS {
	sub, err := fs.Sub(embedded, "help")
	if err != nil {
		panic(err)
	}
	return sub
}

// Candidates lists the file names tried for a route and tab, most specific
// first.
func Candidates(lang, route, tab string) []string {
	base := routeBase(route)
	lang = strings.ToLower(strings.TrimSpace(lang))
	tab = strings.ToLower(strings.TrimSpace(tab))

	var names []string
	if tab != "" {
		if lang != "" {
			names = append(names, fmt.Sprintf("%s-%s.%s.md", base, tab, lang))
		}
		names = append(names, fmt.Sprintf("%s-%s.md", base, tab))
	}
	if lang != "" {
		names = append(names, fmt.Sprintf("%s.%s.md", base, lang))
	}
	return append(names, base+".md")
}

// Lookup returns the first candidate found in fsys.
func Lookup(fsys fs.FS, lang, route, tab string) (string, bool) {
	for _, name := range Candidates(lang, route, tab) {
		data, err := fs.ReadFile(fsys, path.Clean(name))
		if err == nil {
			return string(data), true
		}
	}
	return "", false
}

// Get is Lookup with a placeholder page when nothing matches.
func Get(fsys fs.FS, lang, route, tab string) string {
	if content, ok := Lookup(fsys, lang, route, tab); ok {
		return content
	}
	return fmt.Sprintf("# %s\n\nNo help available for %s.\n", routeBase(route), routeBase(route))
}

func routeBase(route string) string {
	base := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(route), "/"))
	base = strings.ReplaceAll(base, "/", "-")
	if base == "" {
		return "home"
	}
	return base
}
