// Package selection implements the single/multi selection state machine of the
// select widget. Every mutation re-derives its output from the authoritative
// option set rather than from cached labels.
package selection

import (
	"reflect"

	"github.com/Dicklesworthstone/chipselect/pkg/model"
)

// Catalog is the authoritative option set, in source order
type Catalog interface {
	All() []model.Option
}

// lookuper is implemented by catalogs with an index by value
type lookuper interface {
	Lookup(v model.Value) (model.Option, bool)
}

// State names the machine state
type State string

const (
	StateSingleEmpty    State = "single-empty"
	StateSingleSelected State = "single-selected"
	StateMulti          State = "multi"
)

// Machine tracks the selection. It is not safe for concurrent use; the widget
// owns it and mutates it from its update loop only.
type Machine struct {
	multiple           bool
	closeOnMultiToggle bool
	catalog            Catalog

	// single mode
	value    model.Value
	hasValue bool

	// multi mode, insertion ordered
	values []model.Value
	set    map[model.Value]struct{}
}

// NewMachine creates a machine for cfg reading options from catalog
func NewMachine(cfg model.Config, catalog Catalog) *Machine {
	return &Machine{
		multiple:           cfg.Multiple,
		closeOnMultiToggle: cfg.CloseOnMultiToggle,
		catalog:            catalog,
		set:                make(map[model.Value]struct{}),
	}
}

// Multiple returns true in multi-select mode
func (m *Machine) Multiple() bool {
	return m.multiple
}

// State returns the current state
func (m *Machine) State() State {
	if m.multiple {
		return StateMulti
	}
	if m.hasValue {
		return StateSingleSelected
	}
	return StateSingleEmpty
}

// Toggle flips the option: deselect-or-select in single mode, membership in multi mode
func (m *Machine) Toggle(opt model.Option) (Change, error) {
	key, ok := m.known(opt.Value)
	if !ok {
		return Change{}, model.ErrUnknownValue
	}

	if !m.multiple {
		if m.hasValue && model.SameValue(m.value, key) {
			m.value, m.hasValue = nil, false
		} else {
			m.value, m.hasValue = key, true
		}
		ch := m.derive()
		ch.Close = true
		ch.Touched = true
		return ch, nil
	}

	if _, selected := m.set[key]; selected {
		m.removeValue(key)
	} else {
		m.addValue(key)
	}
	ch := m.derive()
	ch.Close = m.closeOnMultiToggle
	return ch, nil
}

// SelectAll selects every option of the full set, filtered or not
func (m *Machine) SelectAll() (Change, error) {
	if !m.multiple {
		return Change{}, model.ErrNotMultiple
	}
	m.clear()
	for _, opt := range m.catalog.All() {
		if key, ok := hashable(opt.Value); ok {
			m.addValue(key)
		}
	}
	ch := m.derive()
	ch.Close = true
	return ch, nil
}

// UnselectAll empties the selection
func (m *Machine) UnselectAll() (Change, error) {
	if !m.multiple {
		return Change{}, model.ErrNotMultiple
	}
	m.clear()
	ch := m.derive()
	ch.Close = true
	return ch, nil
}

// Remove drops opt from the selection, as done by a chip's remove control.
// In single mode it only acts when opt is the current value. ok is false when
// nothing should be emitted.
func (m *Machine) Remove(opt model.Option) (ch Change, ok bool) {
	if !m.multiple {
		if !m.hasValue || !model.SameValue(m.value, opt.Value) {
			return Change{}, false
		}
		m.value, m.hasValue = nil, false
		ch = m.derive()
		ch.Touched = true
		return ch, true
	}

	if key, hashed := hashable(opt.Value); hashed {
		m.removeValue(key)
	}
	return m.derive(), true
}

// SetValue applies an externally written value without emitting anything.
//
// Multi mode accepts any slice or array and coerces everything else to an empty
// selection, returning *model.InvalidExternalValueError. Single mode stores
// the value as-is.
func (m *Machine) SetValue(v any) error {
	if !m.multiple {
		if v == nil {
			m.value, m.hasValue = nil, false
			return nil
		}
		if nv, ok := model.NormalizeValue(v); ok {
			v = nv
		}
		m.value, m.hasValue = v, true
		return nil
	}

	m.clear()
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return &model.InvalidExternalValueError{Multiple: true, Got: v}
	}
	for i := 0; i < rv.Len(); i++ {
		if key, ok := hashable(rv.Index(i).Interface()); ok {
			m.addValue(key)
		}
	}
	return nil
}

// Prune drops selected values that are no longer part of the catalog.
// It returns the resulting change and the values that were dropped.
func (m *Machine) Prune() (Change, []model.Value) {
	present := make(map[model.Value]struct{}, len(m.catalog.All()))
	for _, opt := range m.catalog.All() {
		if key, ok := hashable(opt.Value); ok {
			present[key] = struct{}{}
		}
	}

	var dropped []model.Value
	if !m.multiple {
		if m.hasValue {
			key, ok := hashable(m.value)
			if _, found := present[key]; !ok || !found {
				dropped = append(dropped, m.value)
				m.value, m.hasValue = nil, false
			}
		}
		return m.derive(), dropped
	}

	kept := m.values[:0]
	for _, v := range m.values {
		if _, ok := present[v]; ok {
			kept = append(kept, v)
			continue
		}
		dropped = append(dropped, v)
		delete(m.set, v)
	}
	m.values = kept
	return m.derive(), dropped
}

// Current returns the canonical output for the current selection
func (m *Machine) Current() Change {
	return m.derive()
}

// SelectedOptions returns the selected options in catalog order
func (m *Machine) SelectedOptions() []model.Option {
	return m.derive().Items
}

// IsSelected reports whether v is selected
func (m *Machine) IsSelected(v model.Value) bool {
	if !m.multiple {
		return m.hasValue && model.SameValue(m.value, v)
	}
	key, ok := hashable(v)
	if !ok {
		return false
	}
	_, found := m.set[key]
	return found
}

// AllSelected returns true when every option of the catalog is selected
func (m *Machine) AllSelected() bool {
	all := m.catalog.All()
	if !m.multiple || len(all) == 0 {
		return false
	}
	for _, opt := range all {
		if !m.IsSelected(opt.Value) {
			return false
		}
	}
	return true
}

// Values returns the multi-mode selection in insertion order
func (m *Machine) Values() []model.Value {
	out := make([]model.Value, len(m.values))
	copy(out, m.values)
	return out
}

// SingleValue returns the single-mode value, if any
func (m *Machine) SingleValue() (model.Value, bool) {
	return m.value, m.hasValue
}

// Len returns the number of selected values
func (m *Machine) Len() int {
	if !m.multiple {
		if m.hasValue {
			return 1
		}
		return 0
	}
	return len(m.values)
}

func (m *Machine) derive() Change {
	ch := Change{Multiple: m.multiple}
	if !m.multiple {
		if m.hasValue {
			ch.Value = m.value
			for _, opt := range m.catalog.All() {
				if model.SameValue(opt.Value, m.value) {
					ch.Items = []model.Option{opt.Clone()}
					break
				}
			}
		}
		return ch
	}

	ch.Values = m.Values()
	ch.Items = []model.Option{}
	for _, opt := range m.catalog.All() {
		if key, ok := hashable(opt.Value); ok {
			if _, selected := m.set[key]; selected {
				ch.Items = append(ch.Items, opt.Clone())
			}
		}
	}
	return ch
}

func (m *Machine) known(v model.Value) (model.Value, bool) {
	key, ok := hashable(v)
	if !ok {
		return nil, false
	}
	if l, indexed := m.catalog.(lookuper); indexed {
		_, found := l.Lookup(key)
		return key, found
	}
	for _, opt := range m.catalog.All() {
		if model.SameValue(opt.Value, key) {
			return key, true
		}
	}
	return nil, false
}

func (m *Machine) addValue(key model.Value) {
	if _, dup := m.set[key]; dup {
		return
	}
	m.set[key] = struct{}{}
	m.values = append(m.values, key)
}

func (m *Machine) removeValue(key model.Value) {
	if _, ok := m.set[key]; !ok {
		return
	}
	delete(m.set, key)
	for i, v := range m.values {
		if v == key {
			m.values = append(m.values[:i], m.values[i+1:]...)
			return
		}
	}
}

func (m *Machine) clear() {
	m.values = nil
	m.set = make(map[model.Value]struct{})
}

// hashable normalizes v into something usable as a map key
func hashable(v model.Value) (model.Value, bool) {
	return model.NormalizeValue(v)
}
