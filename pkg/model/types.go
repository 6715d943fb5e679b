package model

import (
	"errors"
	"fmt"
	"strings"
)

// Record is one host-supplied option record, usually a decoded JSON/YAML object
// or a database row. The widget only reads it.
type Record map[string]any

// Clone creates a shallow copy of the record
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	clone := make(Record, len(r))
	for k, v := range r {
		clone[k] = v
	}
	return clone
}

// Fields names the record keys that carry the option value, label and image
type Fields struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
	Image string `yaml:"image" json:"image"`
}

// DefaultFields returns the field names used when the host does not override them
func DefaultFields() Fields {
	return Fields{Value: "id", Label: "name", Image: "image"}
}

// WithDefaults fills empty field names with their defaults
func (f Fields) WithDefaults() Fields {
	d := DefaultFields()
	if f.Value == "" {
		f.Value = d.Value
	}
	if f.Label == "" {
		f.Label = d.Label
	}
	if f.Image == "" {
		f.Image = d.Image
	}
	return f
}

// Option is one selectable entry. Identity is Value equality.
type Option struct {
	Value  Value
	Label  string
	Image  string
	Record Record
}

// Clone creates a copy of the option that shares nothing mutable with the original
func (o Option) Clone() Option {
	clone := o
	clone.Record = o.Record.Clone()
	return clone
}

// Is reports whether the option carries the given value
func (o Option) Is(v Value) bool {
	return SameValue(o.Value, v)
}

// CloneOptions copies a slice of options; nil stays nil
func CloneOptions(opts []Option) []Option {
	if opts == nil {
		return nil
	}
	out := make([]Option, len(opts))
	for i, o := range opts {
		out[i] = o.Clone()
	}
	return out
}

// NormalizeOptions turns host records into options using the configured field names.
// A record without a usable value or label fails with *InvalidOptionError.
func NormalizeOptions(records []Record, fields Fields) ([]Option, error) {
	fields = fields.WithDefaults()
	opts := make([]Option, 0, len(records))
	for i, rec := range records {
		opt, err := NormalizeOption(rec, fields)
		if err != nil {
			var ioe *InvalidOptionError
			if errors.As(err, &ioe) {
				ioe.Index = i
			}
			return nil, err
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

// NormalizeOption converts a single record
func NormalizeOption(rec Record, fields Fields) (Option, error) {
	fields = fields.WithDefaults()

	raw, ok := rec[fields.Value]
	if !ok || raw == nil {
		return Option{}, &InvalidOptionError{Index: -1, Field: fields.Value, Reason: "missing value field"}
	}
	value, ok := NormalizeValue(raw)
	if !ok {
		return Option{}, &InvalidOptionError{Index: -1, Field: fields.Value, Key: raw, Reason: fmt.Sprintf("value of type %T is not a scalar", raw)}
	}

	rawLabel, ok := rec[fields.Label]
	if !ok || rawLabel == nil {
		return Option{}, &InvalidOptionError{Index: -1, Field: fields.Label, Key: value, Reason: "missing label field"}
	}
	label, ok := rawLabel.(string)
	if !ok {
		return Option{}, &InvalidOptionError{Index: -1, Field: fields.Label, Key: value, Reason: fmt.Sprintf("label of type %T is not a string", rawLabel)}
	}

	opt := Option{
		Value:  value,
		Label:  label,
		Record: rec.Clone(),
	}
	if img, ok := rec[fields.Image].(string); ok {
		opt.Image = img
	}
	return opt, nil
}

// Matcher names for Config.Matcher
const (
	MatchSubstring = "substring"
	MatchFuzzy     = "fuzzy"
)

// DefaultMaxVisibleItems is the page size used for windowing when none is configured
const DefaultMaxVisibleItems = 100

// Config is the widget configuration. It is fixed for the lifetime of a widget;
// changing it means building a new one.
type Config struct {
	Multiple        bool `yaml:"multiple" json:"multiple"`
	Searchable      bool `yaml:"searchable" json:"searchable"`
	SelectAllButton bool `yaml:"select_all_button" json:"select_all_button"`
	MaxVisibleItems int  `yaml:"max_visible_items" json:"max_visible_items"`

	// CloseOnMultiToggle closes the dropdown after every toggle in multi mode.
	CloseOnMultiToggle bool `yaml:"close_on_multi_toggle" json:"close_on_multi_toggle"`
	// KeepDangling keeps selected values that disappear from a new option set.
	KeepDangling bool `yaml:"keep_dangling" json:"keep_dangling"`
	// Matcher is "substring" (default) or "fuzzy".
	Matcher string `yaml:"matcher" json:"matcher"`
}

// DefaultConfig returns the widget defaults
func DefaultConfig() Config {
	return Config{
		Multiple:        false,
		Searchable:      true,
		SelectAllButton: true,
		MaxVisibleItems: DefaultMaxVisibleItems,
		Matcher:         MatchSubstring,
	}
}

// PageSize returns the configured window chunk size
func (c Config) PageSize() int {
	if c.MaxVisibleItems <= 0 {
		return DefaultMaxVisibleItems
	}
	return c.MaxVisibleItems
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.MaxVisibleItems < 0 {
		return fmt.Errorf("max_visible_items must not be negative, got %d", c.MaxVisibleItems)
	}
	switch strings.ToLower(c.Matcher) {
	case "", MatchSubstring, MatchFuzzy:
	default:
		return fmt.Errorf("unknown matcher: %q", c.Matcher)
	}
	return nil
}

// Chip is one rendered selected item, or the trailing "+N" overflow marker
type Chip struct {
	Option   Option
	Hidden   bool
	Overflow int // number of collapsed items; only set on the marker
}

// IsOverflow returns true for the synthetic "+N" marker
func (c Chip) IsOverflow() bool {
	return c.Hidden && c.Overflow > 0
}
