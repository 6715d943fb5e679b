// Package binding bridges the select widget to host forms: a value accessor that
// any form system can drive, and listener registration for the widget's outbound
// change notifications.
package binding

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dicklesworthstone/chipselect/pkg/model"
	"github.com/Dicklesworthstone/chipselect/pkg/selection"
)

// ValueAccessor is what a host form needs to bind a control
type ValueAccessor interface {
	// WriteValue sets the control's value from the form without emitting a change
	WriteValue(v any) error
	// RegisterOnChange installs the form's change callback
	RegisterOnChange(fn func(any))
	// RegisterOnTouched installs the form's touched callback
	RegisterOnTouched(fn func())
	// Notify forwards a selection change to the registered callbacks
	Notify(ch selection.Change)
}

// NewAccessor returns the accessor matching the machine's selection mode.
// A nil logger uses slog.Default().
func NewAccessor(m *selection.Machine, logger *slog.Logger) ValueAccessor {
	if logger == nil {
		logger = slog.Default()
	}
	base := callbacks{onChange: func(any) {}, onTouched: func() {}}
	if m.Multiple() {
		return &multiAccessor{callbacks: base, machine: m, logger: logger}
	}
	return &singleAccessor{callbacks: base, machine: m}
}

type callbacks struct {
	onChange  func(any)
	onTouched func()
}

func (c *callbacks) RegisterOnChange(fn func(any)) {
	if fn == nil {
		fn = func(any) {}
	}
	c.onChange = fn
}

func (c *callbacks) RegisterOnTouched(fn func()) {
	if fn == nil {
		fn = func() {}
	}
	c.onTouched = fn
}

func (c *callbacks) Notify(ch selection.Change) {
	c.onChange(ch.Output())
	if ch.Touched {
		c.onTouched()
	}
}

// singleAccessor stores whatever the form writes
type singleAccessor struct {
	callbacks
	machine *selection.Machine
}

func (a *singleAccessor) WriteValue(v any) error {
	return a.machine.SetValue(v)
}

// multiAccessor only accepts sequences; anything else clears the selection
type multiAccessor struct {
	callbacks
	machine *selection.Machine
	logger  *slog.Logger
}

func (a *multiAccessor) WriteValue(v any) error {
	err := a.machine.SetValue(v)
	var invalid *model.InvalidExternalValueError
	if errors.As(err, &invalid) {
		a.logger.Warn("coerced external value to empty selection",
			"type", fmt.Sprintf("%T", v),
			"error", err)
	}
	return err
}
