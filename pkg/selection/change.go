package selection

import "github.com/Dicklesworthstone/chipselect/pkg/model"

// Change is the canonical output of a selection mutation
type Change struct {
	Multiple bool
	Value    model.Value    // single mode; nil when nothing is selected
	Values   []model.Value  // multi mode, insertion order
	Items    []model.Option // matching options in catalog order

	Close   bool // the dropdown should close
	Touched bool // the control should be marked touched
}

// Output returns the value payload: the single value (or nil), or the value slice
func (c Change) Output() any {
	if c.Multiple {
		out := make([]model.Value, len(c.Values))
		copy(out, c.Values)
		return out
	}
	return c.Value
}

// SelectedItem returns the option payload: *model.Option or nil in single mode,
// []model.Option in multi mode
func (c Change) SelectedItem() any {
	if c.Multiple {
		return model.CloneOptions(c.Items)
	}
	if len(c.Items) == 0 {
		return nil
	}
	item := c.Items[0].Clone()
	return &item
}

// Clone returns a deep copy of the change
func (c Change) Clone() Change {
	out := c
	if c.Values != nil {
		out.Values = make([]model.Value, len(c.Values))
		copy(out.Values, c.Values)
	}
	out.Items = model.CloneOptions(c.Items)
	return out
}
