// Package ui provides the select widget as an embeddable Bubble Tea component.
package ui

import (
	"fmt"
	"log/slog"

	"github.com/Dicklesworthstone/chipselect/pkg/binding"
	"github.com/Dicklesworthstone/chipselect/pkg/layout"
	"github.com/Dicklesworthstone/chipselect/pkg/model"
	"github.com/Dicklesworthstone/chipselect/pkg/options"
	"github.com/Dicklesworthstone/chipselect/pkg/selection"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultListHeight  = 8
	defaultWidth       = 48
	defaultPlaceholder = "Select"
)

// Options configures a new SelectModel. Either Records (decoded host data,
// read through Fields) or Options (already normalized) supplies the option set.
type Options struct {
	ID          string
	Records     []model.Record
	Options     []model.Option
	Fields      model.Fields
	Placeholder string
	Config      model.Config
	Theme       *Theme
	Metrics     *layout.Metrics
	Logger      *slog.Logger
	Width       int // total width including the frame; 0 follows the window
	ListHeight  int // rows of the open list
}

// ChangeMsg is sent after every selection change so a parent model can react
type ChangeMsg struct {
	ID     string
	Change selection.Change
}

// measureMsg arrives once the first render pass has settled
type measureMsg struct{ id string }

// SelectModel is a single- or multi-select dropdown with search, windowed
// rendering of large option sets and overflow-aware chips.
type SelectModel struct {
	id          string
	cfg         model.Config
	fields      model.Fields
	placeholder string
	metrics     layout.Metrics
	logger      *slog.Logger

	store    *options.Store
	machine  *selection.Machine
	accessor binding.ValueAccessor
	emitter  *binding.Emitter

	search textinput.Model
	keys   KeyMap
	theme  Theme

	open       bool
	focused    bool
	cursor     int // index into the visible window
	offset     int // first rendered row of the window
	listHeight int

	width          int // total width including the frame
	fixedWidth     bool
	containerWidth int // chip area width; 0 until measured
	originX        int
	originY        int

	subs subscriptions
}

// New builds a widget. It fails when a record lacks its value or label field.
func New(opts Options) (*SelectModel, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	fields := opts.Fields.WithDefaults()
	optionSet := opts.Options
	if opts.Records != nil {
		var err error
		optionSet, err = model.NormalizeOptions(opts.Records, fields)
		if err != nil {
			return nil, err
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	theme := DefaultTheme(nil)
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	metrics := layout.CellMetrics
	if opts.Metrics != nil {
		metrics = *opts.Metrics
	}
	placeholder := opts.Placeholder
	if placeholder == "" {
		placeholder = defaultPlaceholder
	}
	listHeight := opts.ListHeight
	if listHeight <= 0 {
		listHeight = defaultListHeight
	}
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}

	store := options.NewStore(cfg.PageSize(), options.NewMatcher(cfg.Matcher))
	store.SetOptions(optionSet)
	machine := selection.NewMachine(cfg, store)

	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.Prompt = "/ "
	ti.CharLimit = 64

	m := &SelectModel{
		id:          opts.ID,
		cfg:         cfg,
		fields:      fields,
		placeholder: placeholder,
		metrics:     metrics,
		logger:      logger.With("component", "select", "id", opts.ID),
		store:       store,
		machine:     machine,
		accessor:    binding.NewAccessor(machine, logger),
		emitter:     binding.NewEmitter(),
		search:      ti,
		keys:        DefaultKeyMap(),
		theme:       theme,
		focused:     true,
		listHeight:  listHeight,
		width:       width,
		fixedWidth:  opts.Width > 0,
	}
	m.search.Width = m.fieldWidth() - 4
	return m, nil
}

// Init attaches the widget and schedules the first width measurement
func (m *SelectModel) Init() tea.Cmd {
	return m.Attach()
}

// Update handles input and returns a command for any emitted change
func (m *SelectModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case measureMsg:
		if msg.id == m.id && m.subs.attached() {
			m.measure()
		}
		return nil

	case tea.WindowSizeMsg:
		if !m.subs.resize {
			return nil
		}
		if !m.fixedWidth {
			m.SetWidth(msg.Width - m.originX)
		}
		m.measure()
		return nil

	case tea.MouseMsg:
		if !m.subs.pointer {
			return nil
		}
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if !m.focused {
			return nil
		}
		return m.handleKey(msg)
	}

	if m.open && m.cfg.Searchable {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return cmd
	}
	return nil
}

func (m *SelectModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if !m.open {
		switch {
		case key.Matches(msg, m.keys.RemoveLast):
			return m.removeLast()
		case key.Matches(msg, m.keys.Open):
			return m.Open()
		case msg.String() == " " && !m.cfg.Searchable:
			return m.Open()
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Close):
		m.Close()
		return nil
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return nil
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.listHeight)
		return nil
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.listHeight)
		return nil
	case key.Matches(msg, m.keys.Toggle):
		return m.toggleCursor()
	case key.Matches(msg, m.keys.ToggleAll):
		return m.toggleAll()
	case key.Matches(msg, m.keys.RemoveLast):
		return m.removeLast()
	case msg.String() == " " && !m.cfg.Searchable:
		return m.toggleCursor()
	}

	if !m.cfg.Searchable {
		return nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.SetSearchTerm(after)
	}
	return cmd
}

// Open shows the dropdown with the unfiltered option set
func (m *SelectModel) Open() tea.Cmd {
	m.open = true
	m.resetFilter()
	m.logger.Debug("dropdown opened", "options", m.store.Len())
	if m.cfg.Searchable {
		return m.search.Focus()
	}
	return nil
}

// Close hides the dropdown and resets the search term and window
func (m *SelectModel) Close() {
	if !m.open {
		return
	}
	m.open = false
	m.resetFilter()
	m.search.Blur()
	m.logger.Debug("dropdown closed")
}

// Toggle opens a closed dropdown and closes an open one
func (m *SelectModel) Toggle() tea.Cmd {
	if m.open {
		m.Close()
		return nil
	}
	return m.Open()
}

// SetSearchTerm filters the option list. Ignored unless the widget is searchable.
func (m *SelectModel) SetSearchTerm(term string) {
	if !m.cfg.Searchable {
		return
	}
	if m.search.Value() != term {
		m.search.SetValue(term)
	}
	m.store.SetSearchTerm(term)
	m.cursor, m.offset = 0, 0
}

// SetOptions replaces the option set. Selected values missing from the new set
// are pruned (and the change emitted) unless Config.KeepDangling is set.
func (m *SelectModel) SetOptions(opts []model.Option) tea.Cmd {
	m.store.SetOptions(opts)
	m.search.SetValue("")
	m.cursor, m.offset = 0, 0

	if m.cfg.KeepDangling {
		return nil
	}
	ch, dropped := m.machine.Prune()
	if len(dropped) == 0 {
		return nil
	}
	m.logger.Info("pruned selected values missing from new options", "count", len(dropped))
	return m.apply(ch)
}

// SetRecords normalizes host records with the configured fields and replaces the option set
func (m *SelectModel) SetRecords(records []model.Record) (tea.Cmd, error) {
	opts, err := model.NormalizeOptions(records, m.fields)
	if err != nil {
		m.logger.Error("rejected option records", "error", err)
		return nil, err
	}
	return m.SetOptions(opts), nil
}

// WriteValue sets the value from a host form without emitting a change
func (m *SelectModel) WriteValue(v any) error {
	return m.accessor.WriteValue(v)
}

// ToggleOption toggles opt as if it had been clicked
func (m *SelectModel) ToggleOption(opt model.Option) tea.Cmd {
	ch, err := m.machine.Toggle(opt)
	if err != nil {
		m.logger.Warn("toggle rejected", "value", opt.Value, "error", err)
		return nil
	}
	return m.apply(ch)
}

// RemoveOption removes opt from the selection, as the chip remove control does
func (m *SelectModel) RemoveOption(opt model.Option) tea.Cmd {
	ch, ok := m.machine.Remove(opt)
	if !ok {
		return nil
	}
	return m.apply(ch)
}

// SelectAll selects the full option set (multi mode)
func (m *SelectModel) SelectAll() tea.Cmd {
	ch, err := m.machine.SelectAll()
	if err != nil {
		m.logger.Warn("select all rejected", "error", err)
		return nil
	}
	return m.apply(ch)
}

// UnselectAll clears the selection (multi mode)
func (m *SelectModel) UnselectAll() tea.Cmd {
	ch, err := m.machine.UnselectAll()
	if err != nil {
		m.logger.Warn("unselect all rejected", "error", err)
		return nil
	}
	return m.apply(ch)
}

func (m *SelectModel) toggleAll() tea.Cmd {
	if !m.showSelectAll() {
		return nil
	}
	if m.machine.AllSelected() {
		return m.UnselectAll()
	}
	return m.SelectAll()
}

func (m *SelectModel) toggleCursor() tea.Cmd {
	opt, ok := m.store.At(m.cursor)
	if !ok {
		return nil
	}
	return m.ToggleOption(opt)
}

func (m *SelectModel) removeLast() tea.Cmd {
	if m.cfg.Multiple {
		values := m.machine.Values()
		if len(values) == 0 {
			return nil
		}
		return m.RemoveOption(model.Option{Value: values[len(values)-1]})
	}
	v, ok := m.machine.SingleValue()
	if !ok {
		return nil
	}
	return m.RemoveOption(model.Option{Value: v})
}

// apply notifies listeners and the form accessor, then closes when the change asks for it
func (m *SelectModel) apply(ch selection.Change) tea.Cmd {
	m.emitter.Emit(ch)
	m.accessor.Notify(ch)
	if ch.Close {
		m.Close()
	}
	m.logger.Debug("selection changed", "selected", m.machine.Len(), "close", ch.Close)

	msg := ChangeMsg{ID: m.id, Change: ch.Clone()}
	return func() tea.Msg { return msg }
}

func (m *SelectModel) resetFilter() {
	m.search.SetValue("")
	m.store.Reset()
	m.cursor, m.offset = 0, 0
}

func (m *SelectModel) moveCursor(delta int) {
	n := m.store.VisibleLen()
	if n == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.listHeight {
		m.offset = m.cursor - m.listHeight + 1
	}
	m.maybeExtend()
}

func (m *SelectModel) scroll(delta int) {
	m.offset += delta
	maxOffset := m.store.VisibleLen() - m.listHeight
	if m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
	if m.cursor < m.offset {
		m.cursor = m.offset
	}
	if m.cursor >= m.offset+m.listHeight {
		m.cursor = m.offset + m.listHeight - 1
	}
	m.maybeExtend()
}

// maybeExtend grows the window when the viewport nears the end of the rendered rows
func (m *SelectModel) maybeExtend() {
	if !m.store.HasMore() {
		return
	}
	if options.NearEnd(m.offset, m.listHeight, m.store.VisibleLen(), options.ScrollThreshold) {
		m.store.ExtendWindow()
		m.logger.Debug("extended option window", "visible", m.store.VisibleLen(), "filtered", m.store.FilteredLen())
	}
}

func (m *SelectModel) measure() {
	m.containerWidth = m.fieldWidth() - caretWidth
	if m.containerWidth < 0 {
		m.containerWidth = 0
	}
}

// SetWidth sets the total width including the frame. Takes effect on the next measurement.
func (m *SelectModel) SetWidth(width int) {
	if width < minWidth {
		width = minWidth
	}
	m.width = width
	m.search.Width = m.fieldWidth() - 4
}

// SetOrigin tells the widget where its top-left corner is drawn, for mouse hit tests
func (m *SelectModel) SetOrigin(x, y int) {
	m.originX, m.originY = x, y
}

// Focus lets the widget receive key input
func (m *SelectModel) Focus() {
	m.focused = true
}

// Blur stops key input and closes the dropdown
func (m *SelectModel) Blur() {
	m.focused = false
	m.Close()
}

// Focused returns true if the widget receives key input
func (m *SelectModel) Focused() bool {
	return m.focused
}

// IsOpen returns true while the dropdown is shown
func (m *SelectModel) IsOpen() bool {
	return m.open
}

// Value returns the current value payload: the single value or the value slice
func (m *SelectModel) Value() any {
	return m.machine.Current().Output()
}

// SelectedOptions returns the selected options in option order
func (m *SelectModel) SelectedOptions() []model.Option {
	return m.machine.SelectedOptions()
}

// Chips returns the chips for the current selection and measured width
func (m *SelectModel) Chips() []model.Chip {
	items := m.machine.SelectedOptions()
	if !m.cfg.Multiple {
		if len(items) == 0 {
			return nil
		}
		return layout.SingleChip(&items[0])
	}
	return layout.ComputeChips(items, m.containerWidth, m.metrics)
}

// Summary returns the chip labels joined, or the placeholder
func (m *SelectModel) Summary() string {
	return layout.Summary(m.Chips(), m.placeholder)
}

// ContainerWidth returns the measured chip area width, 0 before measurement
func (m *SelectModel) ContainerWidth() int {
	return m.containerWidth
}

// CurrentView returns the rendered window of the filtered options
func (m *SelectModel) CurrentView() []model.Option {
	return m.store.CurrentView()
}

// Counts returns the rendered, filtered and total option counts
func (m *SelectModel) Counts() (visible, filtered, total int) {
	return m.store.VisibleLen(), m.store.FilteredLen(), m.store.Len()
}

// Emitter returns the outbound notification hub for host listeners
func (m *SelectModel) Emitter() *binding.Emitter {
	return m.emitter
}

// Accessor returns the form-control adapter
func (m *SelectModel) Accessor() binding.ValueAccessor {
	return m.accessor
}

// Config returns the widget configuration
func (m *SelectModel) Config() model.Config {
	return m.cfg
}

// Keys returns the key bindings
func (m *SelectModel) Keys() KeyMap {
	return m.keys
}

func (m *SelectModel) showSelectAll() bool {
	return m.cfg.Multiple && m.cfg.SelectAllButton
}

func (m *SelectModel) fieldWidth() int {
	return m.width - 2*frameLeft
}
