package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"

	"github.com/trueblocks/deskshell/internal/backend"
)

type markdownMsg struct {
	route   string
	tab     string
	content string
	err     error
}

// helpPanel shows the markdown page for the current route and tab.
type helpPanel struct {
	lang   string
	logger *log.Logger

	route   string
	tab     string
	content string

	style    string
	width    int
	viewport viewport.Model
}

func newHelpPanel(lang string, logger *log.Logger) helpPanel {
	return helpPanel{lang: lang, logger: logger, viewport: viewport.New(0, 0)}
}

// load fetches the page for route and tab.
func (h *helpPanel) load(b backend.Backend, route, tab string) tea.Cmd {
	h.route, h.tab = route, tab
	lang := h.lang
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), CallTimeout)
		defer cancel()
		content, err := b.GetMarkdown(ctx, lang, route, tab)
		return markdownMsg{route: route, tab: tab, content: content, err: err}
	}
}

// apply stores a fetched page unless the route or tab moved on meanwhile.
func (h *helpPanel) apply(msg markdownMsg) {
	if msg.route != h.route || msg.tab != h.tab {
		return
	}
	if msg.err != nil {
		h.logger.Warn("help lookup failed", "route", msg.route, "tab", msg.tab, "err", msg.err)
		h.content = "Help is unavailable: " + msg.err.Error()
	} else {
		h.content = msg.content
	}
	h.render()
}

func (h *helpPanel) resize(width, height int, style string) {
	changed := width != h.width || style != h.style
	h.width, h.style = width, style
	h.viewport.Width = max(0, width)
	h.viewport.Height = max(0, height)
	if changed {
		h.render()
	}
}

// render re-creates the glamour renderer, which is bound to one wrap width.
func (h *helpPanel) render() {
	if h.width <= 0 {
		return
	}
	out := h.content
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(h.style),
		glamour.WithWordWrap(max(10, h.width-2)),
	)
	if err == nil {
		if rendered, rerr := r.Render(h.content); rerr == nil {
			out = strings.TrimSpace(rendered)
		} else {
			err = rerr
		}
	}
	if err != nil {
		h.logger.Debug("markdown render failed", "err", err)
	}
	h.viewport.SetContent(out)
	h.viewport.GotoTop()
}

func (h *helpPanel) scroll(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.viewport, cmd = h.viewport.Update(msg)
	return cmd
}

func (h helpPanel) View() string {
	return h.viewport.View()
}
