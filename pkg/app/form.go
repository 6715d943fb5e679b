// Package app is the demo host: a one-field form around the select widget
// with validation, submission history and live option reloads.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/chipselect/pkg/model"
	"github.com/Dicklesworthstone/chipselect/pkg/ui"
)

// ErrRequired is the validation error of an empty required field
var ErrRequired = errors.New("a selection is required")

// Recorder persists submissions
type Recorder interface {
	Record(ctx context.Context, s *model.Submission) error
}

// ReloadMsg carries freshly loaded option records, or the load error
type ReloadMsg struct {
	Records []model.Record
	Err     error
}

// SubmittedMsg reports the outcome of a submission
type SubmittedMsg struct {
	Submission model.Submission
	Err        error
}

// FormOptions configures a FormModel
type FormOptions struct {
	Field    string // control name stored with submissions
	Label    string
	Required bool
	Select   ui.Options
	History  Recorder // nil skips persistence
	Copy     func(string) error
	Logger   *slog.Logger
}

// FormModel is the host form
type FormModel struct {
	sel      *ui.SelectModel
	help     HelpModel
	helpBar  help.Model
	keys     KeyMap
	theme    ui.Theme
	field    string
	label    string
	required bool
	history  Recorder
	copy     func(string) error
	logger   *slog.Logger

	// form control state, fed by the widget's accessor callbacks
	value   any
	dirty   bool
	touched bool

	status    string
	statusErr bool
	last      *model.Submission
	reloads   int
	width     int
	height    int
	quitting  bool
}

// NewForm builds the form and its widget
func NewForm(opts FormOptions) (*FormModel, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	selOpts := opts.Select
	if selOpts.ID == "" {
		selOpts.ID = opts.Field
	}
	if selOpts.Logger == nil {
		selOpts.Logger = logger
	}
	sel, err := ui.New(selOpts)
	if err != nil {
		return nil, err
	}
	// the label line sits above the widget
	sel.SetOrigin(0, 1)

	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	label := opts.Label
	if label == "" {
		label = opts.Field
	}

	theme := ui.DefaultTheme(nil)
	if selOpts.Theme != nil {
		theme = *selOpts.Theme
	}
	keys := DefaultKeyMap()

	f := &FormModel{
		sel:      sel,
		help:     NewHelpModel(theme, sel.Keys(), keys),
		helpBar:  help.New(),
		keys:     keys,
		theme:    theme,
		field:    opts.Field,
		label:    label,
		required: opts.Required,
		history:  opts.History,
		copy:     copyFn,
		logger:   logger.With("component", "form", "field", opts.Field),
		value:    sel.Value(),
	}
	sel.Accessor().RegisterOnChange(func(v any) {
		f.value = v
		f.dirty = true
	})
	sel.Accessor().RegisterOnTouched(func() {
		f.touched = true
	})
	return f, nil
}

// Init implements tea.Model
func (f *FormModel) Init() tea.Cmd {
	return f.sel.Init()
}

// Update implements tea.Model
func (f *FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.width, f.height = msg.Width, msg.Height
		f.help.SetSize(msg.Width, msg.Height)
		f.helpBar.Width = msg.Width
		return f, f.sel.Update(msg)

	case ReloadMsg:
		return f, f.reload(msg)

	case SubmittedMsg:
		if msg.Err != nil {
			f.setError(fmt.Errorf("save failed: %w", msg.Err))
			return f, nil
		}
		sub := msg.Submission
		f.last = &sub
		f.setStatus(fmt.Sprintf("Submitted %d value(s)", len(sub.Values)))
		return f, nil

	case ui.ChangeMsg:
		f.setStatus(fmt.Sprintf("%d selected", len(f.sel.SelectedOptions())))
		return f, nil

	case tea.KeyMsg:
		if f.help.IsVisible() {
			f.help, _ = f.help.Update(msg)
			return f, nil
		}
		if cmd, handled := f.handleKey(msg); handled {
			return f, cmd
		}
	}

	return f, f.sel.Update(msg)
}

func (f *FormModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, f.keys.Submit):
		return f.Submit(), true
	case key.Matches(msg, f.keys.Copy):
		f.CopyValues()
		return nil, true
	}

	// the remaining keys are plain runes the search input also wants
	if f.sel.IsOpen() {
		if msg.String() == "ctrl+c" {
			f.quitting = true
			return tea.Quit, true
		}
		return nil, false
	}
	switch {
	case key.Matches(msg, f.keys.Quit):
		f.quitting = true
		return tea.Quit, true
	case key.Matches(msg, f.keys.Help):
		f.help.Toggle()
		return nil, true
	}
	return nil, false
}

func (f *FormModel) reload(msg ReloadMsg) tea.Cmd {
	if msg.Err != nil {
		f.logger.Error("option reload failed", "error", msg.Err)
		f.setError(fmt.Errorf("reload failed: %w", msg.Err))
		return nil
	}
	cmd, err := f.sel.SetRecords(msg.Records)
	if err != nil {
		f.setError(fmt.Errorf("reload rejected: %w", err))
		return nil
	}
	f.reloads++
	f.logger.Info("options reloaded", "count", len(msg.Records))
	f.setStatus(fmt.Sprintf("Reloaded %d options", len(msg.Records)))
	return cmd
}

// WriteValue sets the control value from the host without marking it dirty
func (f *FormModel) WriteValue(v any) error {
	err := f.sel.WriteValue(v)
	f.value = f.sel.Value()
	return err
}

// Validate returns ErrRequired when the field is required and empty
func (f *FormModel) Validate() error {
	if f.required && isEmpty(f.value) {
		return ErrRequired
	}
	return nil
}

// Submit validates the field and records a submission
func (f *FormModel) Submit() tea.Cmd {
	// submitting marks the control touched so the error shows
	f.touched = true
	if err := f.Validate(); err != nil {
		f.setError(err)
		return nil
	}

	sub := model.Submission{
		Field:     f.field,
		Values:    valuesOf(f.value),
		Labels:    f.Labels(),
		CreatedAt: time.Now().UTC(),
	}
	f.logger.Info("form submitted", "values", sub.Values, "labels", sub.Labels)

	if f.history == nil {
		return func() tea.Msg { return SubmittedMsg{Submission: sub} }
	}
	history := f.history
	return func() tea.Msg {
		err := history.Record(context.Background(), &sub)
		return SubmittedMsg{Submission: sub, Err: err}
	}
}

// CopyValues puts the selected labels on the clipboard
func (f *FormModel) CopyValues() {
	labels := f.Labels()
	if len(labels) == 0 {
		f.setError(errors.New("nothing to copy"))
		return
	}
	if err := f.copy(strings.Join(labels, ", ")); err != nil {
		f.logger.Warn("clipboard write failed", "error", err)
		f.setError(fmt.Errorf("copy failed: %w", err))
		return
	}
	f.setStatus(fmt.Sprintf("Copied %d label(s)", len(labels)))
}

// Labels returns the labels of the selected options
func (f *FormModel) Labels() []string {
	opts := f.sel.SelectedOptions()
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Label
	}
	return out
}

func (f *FormModel) setStatus(s string) {
	f.status, f.statusErr = s, false
}

func (f *FormModel) setError(err error) {
	f.status, f.statusErr = err.Error(), true
}

// Select returns the embedded widget
func (f *FormModel) Select() *ui.SelectModel {
	return f.sel
}

// Value returns the form control value
func (f *FormModel) Value() any {
	return f.value
}

// Dirty returns true once the user changed the value
func (f *FormModel) Dirty() bool {
	return f.dirty
}

// Touched returns true once the control was committed or submitted
func (f *FormModel) Touched() bool {
	return f.touched
}

// Status returns the status line and whether it is an error
func (f *FormModel) Status() (string, bool) {
	return f.status, f.statusErr
}

// LastSubmission returns the most recent successful submission, or nil
func (f *FormModel) LastSubmission() *model.Submission {
	return f.last
}

// Reloads returns how many option reloads were applied
func (f *FormModel) Reloads() int {
	return f.reloads
}

// View implements tea.Model
func (f *FormModel) View() string {
	if f.quitting {
		return ""
	}
	if f.help.IsVisible() {
		return f.help.View()
	}
	theme := f.theme

	labelStyle := theme.Renderer.NewStyle().Bold(true).Foreground(theme.Primary)
	label := f.label
	if f.required {
		label += " *"
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(label))
	b.WriteString("\n")
	b.WriteString(f.sel.View())
	b.WriteString("\n")

	if f.touched {
		if err := f.Validate(); err != nil {
			b.WriteString(theme.Renderer.NewStyle().Foreground(theme.Remove).Render(err.Error()))
			b.WriteString("\n")
		}
	}
	if f.status != "" {
		style := theme.Renderer.NewStyle().Foreground(theme.Subtext)
		if f.statusErr {
			style = style.Foreground(theme.Remove)
		}
		b.WriteString(style.Render(f.status))
		b.WriteString("\n")
	}

	bindings := append(f.sel.Keys().ShortHelp(), f.keys.Submit, f.keys.Copy, f.keys.Help, f.keys.Quit)
	b.WriteString(f.helpBar.ShortHelpView(bindings))
	return b.String()
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len() == 0
	case reflect.String:
		return rv.Len() == 0
	}
	return false
}

// valuesOf flattens the control value into a submission value list
func valuesOf(v any) []model.Value {
	if v == nil {
		return []model.Value{}
	}
	if vs, ok := v.([]model.Value); ok {
		out := make([]model.Value, len(vs))
		copy(out, vs)
		return out
	}
	return []model.Value{v}
}
