package ui

import tea "github.com/charmbracelet/bubbletea"

// subscriptions tracks which external event sources the widget listens to.
// Both are acquired on Attach and released on Detach, so a detached widget
// ignores pointer and resize events even when its host still forwards them.
type subscriptions struct {
	pointer bool // mouse presses, for outside-click dismissal and clicks
	resize  bool // window size changes, for re-measuring the chip area
}

func (s subscriptions) attached() bool {
	return s.pointer || s.resize
}

// Attach subscribes to pointer and resize events and returns the deferred
// first measurement. Hosts embedding the widget call it from their Init.
func (m *SelectModel) Attach() tea.Cmd {
	m.subs = subscriptions{pointer: true, resize: true}
	m.logger.Debug("attached")
	id := m.id
	return func() tea.Msg { return measureMsg{id: id} }
}

// Detach releases the event subscriptions and closes the dropdown
func (m *SelectModel) Detach() {
	m.Close()
	m.subs = subscriptions{}
	m.logger.Debug("detached")
}

// Attached returns true between Attach and Detach
func (m *SelectModel) Attached() bool {
	return m.subs.attached()
}
