package ui

import (
	"fmt"
	"strings"

	"github.com/Dicklesworthstone/chipselect/pkg/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

const (
	caretWidth   = 2 // " ▾"
	minWidth     = 16
	removeMarker = "×"
)

// rowLayout is the row index of each part inside the frame; -1 when absent
type rowLayout struct {
	field     int
	search    int
	selectAll int
	listStart int
	listRows  int
	footer    int
	total     int
}

func (m *SelectModel) rows() rowLayout {
	r := rowLayout{field: 0, search: -1, selectAll: -1, listStart: -1, footer: -1, total: 1}
	if !m.open {
		return r
	}
	next := 1
	if m.cfg.Searchable {
		r.search = next
		next++
	}
	if m.showSelectAll() {
		r.selectAll = next
		next++
	}
	r.listStart = next
	r.listRows = m.store.VisibleLen() - m.offset
	if r.listRows > m.listHeight {
		r.listRows = m.listHeight
	}
	if r.listRows < 1 {
		r.listRows = 1 // "no matches" line
	}
	next += r.listRows
	r.footer = next
	r.total = next + 1
	return r
}

// chipSpan is the column range of one chip in the field row, relative to the
// content area. remove is the column of its remove marker, -1 for the "+N" chip.
type chipSpan struct {
	start, end int
	remove     int
	chip       model.Chip
}

func (m *SelectModel) chipSpans(chips []model.Chip) []chipSpan {
	spans := make([]chipSpan, 0, len(chips))
	x := 0
	for _, c := range chips {
		text := m.chipLabel(c)
		remove := -1
		if !c.Hidden {
			text += " " + removeMarker
		}
		w := runewidth.StringWidth(text)
		if !c.Hidden {
			remove = x + w - runewidth.StringWidth(removeMarker)
		}
		spans = append(spans, chipSpan{start: x, end: x + w, remove: remove, chip: c})
		x += w + 1
	}
	return spans
}

// View renders the widget
func (m *SelectModel) View() string {
	lines := []string{m.renderField()}
	if m.open {
		if m.cfg.Searchable {
			lines = append(lines, m.search.View())
		}
		if m.showSelectAll() {
			lines = append(lines, m.renderSelectAll())
		}
		lines = append(lines, m.renderList()...)
		lines = append(lines, m.renderFooter())
	}

	return m.theme.boxStyle(m.open).
		Width(m.width - 2).
		Render(strings.Join(lines, "\n"))
}

func (m *SelectModel) renderField() string {
	t := m.theme
	avail := m.fieldWidth() - caretWidth

	caret := " ▾"
	if m.open {
		caret = " ▴"
	}

	chips := m.Chips()
	var body string
	if len(chips) == 0 {
		body = t.placeholderStyle().Render(truncate.StringWithTail(m.placeholder, uint(max(avail, 0)), "…"))
	} else {
		parts := make([]string, 0, len(chips))
		for _, span := range m.chipSpans(chips) {
			c := span.chip
			if c.Hidden {
				parts = append(parts, t.overflowStyle().Render(c.Option.Label))
				continue
			}
			parts = append(parts, t.chipStyle().Render(m.chipLabel(c)+" ")+t.removeStyle().Render(removeMarker))
		}
		body = strings.Join(parts, " ")
	}

	pad := avail - lipgloss.Width(body)
	if pad < 0 {
		pad = 0
	}
	return body + strings.Repeat(" ", pad) + t.Renderer.NewStyle().Foreground(t.Secondary).Render(caret)
}

func (m *SelectModel) renderSelectAll() string {
	t := m.theme
	label := "[ ] Select all"
	if m.machine.AllSelected() {
		label = "[x] Unselect all"
	}
	return t.Renderer.NewStyle().Foreground(t.Primary).Bold(true).Render(label)
}

func (m *SelectModel) renderList() []string {
	t := m.theme
	if m.store.VisibleLen() == 0 {
		return []string{t.placeholderStyle().Render("  No matching options")}
	}

	r := m.rows()
	lines := make([]string, 0, r.listRows)
	for i := m.offset; i < m.offset+r.listRows; i++ {
		opt, ok := m.store.At(i)
		if !ok {
			break
		}
		selected := m.machine.IsSelected(opt.Value)

		prefix := "  "
		if i == m.cursor {
			prefix = "▸ "
		}
		mark := "○ "
		if m.cfg.Multiple {
			mark = "[ ] "
			if selected {
				mark = "[x] "
			}
		} else if selected {
			mark = "● "
		}

		style := t.Renderer.NewStyle().Foreground(t.Text)
		if selected {
			style = style.Foreground(t.Selected)
		}
		if i == m.cursor {
			style = style.Foreground(t.Primary).Bold(true)
		}
		labelWidth := max(m.fieldWidth()-runewidth.StringWidth(prefix+mark), 1)
		label := truncate.StringWithTail(opt.Label, uint(labelWidth), "…")
		lines = append(lines, style.Render(prefix+mark+label))
	}
	return lines
}

func (m *SelectModel) renderFooter() string {
	t := m.theme
	text := fmt.Sprintf("%d of %d", m.store.VisibleLen(), m.store.FilteredLen())
	if m.store.FilteredLen() != m.store.Len() {
		text += fmt.Sprintf(" (filtered from %d)", m.store.Len())
	}
	if m.store.HasMore() {
		text += " · scroll for more"
	}
	return t.Renderer.NewStyle().Foreground(t.Subtext).Faint(true).Render(text)
}

// handleMouse dispatches presses and wheel events by hit-testing the row layout
func (m *SelectModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	r := m.rows()
	x := msg.X - m.originX
	y := msg.Y - m.originY
	inside := x >= 0 && x < m.width && y >= 0 && y < r.total+2*frameTop

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if inside && m.open {
			m.scroll(-1)
		}
		return nil
	case tea.MouseButtonWheelDown:
		if inside && m.open {
			m.scroll(1)
		}
		return nil
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	if !inside {
		if m.open {
			m.logger.Debug("outside click")
			m.Close()
		}
		return nil
	}

	row := y - frameTop
	col := x - frameLeft
	switch {
	case row == r.field:
		for _, span := range m.chipSpans(m.Chips()) {
			if span.remove >= 0 && col == span.remove {
				return m.RemoveOption(span.chip.Option)
			}
		}
		return m.Toggle()
	case m.open && r.selectAll >= 0 && row == r.selectAll:
		return m.toggleAll()
	case m.open && row >= r.listStart && row < r.listStart+r.listRows:
		idx := m.offset + row - r.listStart
		if idx >= m.store.VisibleLen() {
			return nil
		}
		m.cursor = idx
		return m.toggleCursor()
	}
	return nil
}

// chipLabel is the label text drawn for c; a single-mode label is cut to the field
func (m *SelectModel) chipLabel(c model.Chip) string {
	if m.cfg.Multiple || c.Hidden {
		return c.Option.Label
	}
	avail := m.fieldWidth() - caretWidth - runewidth.StringWidth(" "+removeMarker)
	return truncate.StringWithTail(c.Option.Label, uint(max(avail, 1)), "…")
}
