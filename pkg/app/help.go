package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/chipselect/pkg/ui"
)

// HelpModel shows the keyboard shortcuts as rendered markdown
type HelpModel struct {
	visible bool
	width   int
	height  int
	theme   ui.Theme
	groups  []helpGroup

	rendered string
	renderW  int
}

type helpGroup struct {
	title    string
	bindings []key.Binding
}

// NewHelpModel creates a hidden help overlay for the given key maps
func NewHelpModel(theme ui.Theme, widget ui.KeyMap, form KeyMap) HelpModel {
	return HelpModel{
		theme: theme,
		groups: []helpGroup{
			{"Dropdown", []key.Binding{widget.Open, widget.Up, widget.Down, widget.PageUp, widget.PageDown, widget.Toggle, widget.ToggleAll, widget.RemoveLast, widget.Close}},
			{"Form", []key.Binding{form.Submit, form.Copy, form.Help, form.Quit}},
		},
	}
}

// Toggle toggles visibility
func (m *HelpModel) Toggle() {
	m.visible = !m.visible
}

// IsVisible returns true if the overlay is showing
func (m HelpModel) IsVisible() bool {
	return m.visible
}

// SetSize sets dimensions
func (m *HelpModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles input
func (m HelpModel) Update(msg tea.Msg) (HelpModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg.(type) {
	case tea.KeyMsg:
		// Any key closes help
		m.visible = false
	}

	return m, nil
}

// Markdown returns the help text as markdown
func (m HelpModel) Markdown() string {
	var b strings.Builder
	b.WriteString("# Keyboard shortcuts\n")
	for _, g := range m.groups {
		fmt.Fprintf(&b, "\n## %s\n\n| Key | Action |\n| --- | --- |\n", g.title)
		for _, kb := range g.bindings {
			h := kb.Help()
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
	}
	b.WriteString("\nMouse: click a row to toggle it, click `×` on a chip to remove it, click outside to close.\n")
	return b.String()
}

// View renders the help overlay
func (m *HelpModel) View() string {
	if !m.visible {
		return ""
	}

	wrap := m.width - 8
	if wrap < 40 {
		wrap = 40
	}
	if m.rendered == "" || m.renderW != wrap {
		m.rendered = m.render(wrap)
		m.renderW = wrap
	}

	hintStyle := m.theme.Renderer.NewStyle().Faint(true).Italic(true)
	boxStyle := m.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(0, 1)

	return boxStyle.Render(strings.TrimRight(m.rendered, "\n") + "\n\n" + hintStyle.Render("[Press any key to close]"))
}

func (m HelpModel) render(wrap int) string {
	md := m.Markdown()
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
