package binding

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/Dicklesworthstone/chipselect/pkg/model"
	"github.com/Dicklesworthstone/chipselect/pkg/options"
	"github.com/Dicklesworthstone/chipselect/pkg/selection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMachine(t *testing.T, multiple bool) *selection.Machine {
	t.Helper()
	s := options.NewStore(10, nil)
	s.SetOptions([]model.Option{
		{Value: int64(1), Label: "Alpha"},
		{Value: int64(2), Label: "Beta"},
	})
	cfg := model.DefaultConfig()
	cfg.Multiple = multiple
	return selection.NewMachine(cfg, s)
}

func TestAccessor_SingleNotify(t *testing.T) {
	m := newMachine(t, false)
	a := NewAccessor(m, nil)

	var changed []any
	touched := 0
	a.RegisterOnChange(func(v any) { changed = append(changed, v) })
	a.RegisterOnTouched(func() { touched++ })

	ch, err := m.Toggle(model.Option{Value: 1})
	require.NoError(t, err)
	a.Notify(ch)

	assert.Equal(t, []any{int64(1)}, changed)
	assert.Equal(t, 1, touched)
}

func TestAccessor_SingleWriteAcceptsAnything(t *testing.T) {
	m := newMachine(t, false)
	a := NewAccessor(m, nil)

	require.NoError(t, a.WriteValue(2))
	assert.True(t, m.IsSelected(int64(2)))

	require.NoError(t, a.WriteValue("unknown"))
	v, ok := m.SingleValue()
	assert.True(t, ok)
	assert.Equal(t, "unknown", v)
}

func TestAccessor_MultiWriteCoercesAndLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	m := newMachine(t, true)
	a := NewAccessor(m, logger)

	require.NoError(t, a.WriteValue([]any{1, 2}))
	assert.Equal(t, []model.Value{int64(1), int64(2)}, m.Values())

	err := a.WriteValue(42)
	var invalid *model.InvalidExternalValueError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, m.Values())
	assert.Contains(t, buf.String(), "coerced external value")
	assert.Contains(t, buf.String(), "type=int")
}

func TestAccessor_WriteDoesNotNotify(t *testing.T) {
	m := newMachine(t, true)
	a := NewAccessor(m, nil)
	calls := 0
	a.RegisterOnChange(func(any) { calls++ })

	require.NoError(t, a.WriteValue([]int{1}))
	assert.Zero(t, calls)
}

func TestEmitter_DeliversCopies(t *testing.T) {
	m := newMachine(t, true)
	e := NewEmitter()

	var first, second []model.Value
	var items []model.Option
	e.OnValueChange(func(v any) {
		first = v.([]model.Value)
		first[0] = "mutated"
	})
	e.OnModelChange(func(v any) { second = v.([]model.Value) })
	e.OnSelectItem(func(v any) { items = v.([]model.Option) })

	ch, err := m.Toggle(model.Option{Value: 1})
	require.NoError(t, err)
	e.Emit(ch)

	assert.Equal(t, []model.Value{int64(1)}, second)
	require.Len(t, items, 1)
	assert.Equal(t, "Alpha", items[0].Label)
	assert.True(t, m.IsSelected(int64(1)))
}

func TestEmitter_Unsubscribe(t *testing.T) {
	e := NewEmitter()
	calls := 0
	off := e.OnValueChange(func(any) { calls++ })
	e.OnSelectItem(func(any) {})
	assert.Equal(t, 2, e.Len())

	off()
	e.Emit(selection.Change{})
	assert.Zero(t, calls)
	assert.Equal(t, 1, e.Len())
}

func TestEmitter_SingleNullPayload(t *testing.T) {
	m := newMachine(t, false)
	e := NewEmitter()

	var item any = "unset"
	var value any = "unset"
	e.OnSelectItem(func(v any) { item = v })
	e.OnValueChange(func(v any) { value = v })

	m.Toggle(model.Option{Value: 2})
	ch, _ := m.Toggle(model.Option{Value: 2})
	e.Emit(ch)

	assert.Nil(t, item)
	assert.Nil(t, value)
}
