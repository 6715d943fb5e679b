package binding

import (
	"github.com/Dicklesworthstone/chipselect/pkg/selection"
)

// Emitter fans selection changes out to host listeners. Each listener gets its
// own copy of the payload, so nothing a host does to it reaches the widget.
type Emitter struct {
	nextID      int
	valueChange map[int]func(any)
	modelChange map[int]func(any)
	selectItem  map[int]func(any)
	order       []int
}

// NewEmitter creates an emitter with no listeners
func NewEmitter() *Emitter {
	return &Emitter{
		valueChange: make(map[int]func(any)),
		modelChange: make(map[int]func(any)),
		selectItem:  make(map[int]func(any)),
	}
}

// OnValueChange registers fn for the value(s) payload. The returned func unsubscribes.
func (e *Emitter) OnValueChange(fn func(any)) func() {
	return e.add(e.valueChange, fn)
}

// OnModelChange registers fn for the form-binding channel, same payload as OnValueChange
func (e *Emitter) OnModelChange(fn func(any)) func() {
	return e.add(e.modelChange, fn)
}

// OnSelectItem registers fn for the option payload: *model.Option, []model.Option or nil
func (e *Emitter) OnSelectItem(fn func(any)) func() {
	return e.add(e.selectItem, fn)
}

// Emit delivers ch to every listener in registration order
func (e *Emitter) Emit(ch selection.Change) {
	for _, id := range e.order {
		if fn, ok := e.valueChange[id]; ok {
			fn(ch.Output())
		}
		if fn, ok := e.modelChange[id]; ok {
			fn(ch.Output())
		}
		if fn, ok := e.selectItem[id]; ok {
			fn(ch.SelectedItem())
		}
	}
}

// Len returns the number of registered listeners
func (e *Emitter) Len() int {
	return len(e.valueChange) + len(e.modelChange) + len(e.selectItem)
}

func (e *Emitter) add(set map[int]func(any), fn func(any)) func() {
	if fn == nil {
		return func() {}
	}
	e.nextID++
	id := e.nextID
	set[id] = fn
	e.order = append(e.order, id)
	return func() {
		delete(set, id)
		for i, v := range e.order {
			if v == id {
				e.order = append(e.order[:i], e.order[i+1:]...)
				break
			}
		}
	}
}
