package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventGetSet(t *testing.T) {
	ev := NewEvent(uint32(32))
	require.NotEmpty(t, ev.ID())

	v, ok := Get[uint32](ev)
	require.True(t, ok)
	assert.Equal(t, uint32(32), v)

	_, ok = Get[string](ev)
	assert.False(t, ok)
	_, ok = Get[int](ev)
	assert.False(t, ok, "uint32 must not read as int")

	Set(ev, "hello")
	_, ok = Get[uint32](ev)
	assert.False(t, ok)
	s, ok := Get[string](ev)
	require.True(t, ok)
	assert.Equal(t, "hello", s)
}

func TestEventIDsAreUnique(t *testing.T) {
	assert.NotEqual(t, NewEvent(1).ID(), NewEvent(1).ID())
}

func TestNilPayload(t *testing.T) {
	ev := NewEvent(nil)
	_, ok := Get[string](ev)
	assert.False(t, ok)
	assert.Nil(t, ev.Data())
}

func TestExpect(t *testing.T) {
	ev := NewEvent("hello")

	s, err := Expect[string](ev, "echo")
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	_, err = Expect[uint32](ev, "counter")
	require.Error(t, err)
	assert.True(t, ErrTypeMismatch.Has(err))
	assert.Contains(t, err.Error(), "counter expected uint32, got string")
}

func TestViewIsReadOnly(t *testing.T) {
	ev := NewEvent(1)
	var v any = view{e: ev}
	_, mutable := v.(interface{ SetData(any) })
	assert.False(t, mutable)
	assert.Equal(t, ev.ID(), v.(view).ID())
}
