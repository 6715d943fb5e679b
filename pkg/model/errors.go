package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotMultiple is returned by multi-only operations on a single-select widget
	ErrNotMultiple = errors.New("operation requires multiple selection mode")

	// ErrUnknownValue is returned when an option is not part of the current option set
	ErrUnknownValue = errors.New("value is not in the current option set")
)

// InvalidOptionError reports a host record that lacks a usable value or label
type InvalidOptionError struct {
	Index  int    // position in the supplied records, -1 if unknown
	Field  string // offending field name
	Key    any    // option key when it could be read
	Reason string
}

func (e *InvalidOptionError) Error() string {
	where := "option"
	if e.Index >= 0 {
		where = fmt.Sprintf("option #%d", e.Index)
	}
	if e.Key != nil {
		where += fmt.Sprintf(" (key %v)", e.Key)
	}
	return fmt.Sprintf("invalid %s: field %q: %s", where, e.Field, e.Reason)
}

// InvalidExternalValueError reports a written value whose shape does not match
// the selection mode. The selection has already been coerced when it is returned.
type InvalidExternalValueError struct {
	Multiple bool
	Got      any
}

func (e *InvalidExternalValueError) Error() string {
	mode := "single"
	if e.Multiple {
		mode = "multiple"
	}
	return fmt.Sprintf("external value of type %T does not fit %s selection mode; coerced to empty selection", e.Got, mode)
}
