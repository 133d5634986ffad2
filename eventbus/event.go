package eventbus

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/opdss/eventbus/contracts/event"
)

var _ event.MutableEvent = (*Event)(nil)

// Event holds exactly one payload of any type. The payload may be replaced
// by a value of a different type; no history is kept.
//
// An Event is not safe for concurrent use.
type Event struct {
	id   string
	data any
}

// NewEvent creates an event holding data.
func NewEvent(data any) *Event {
	return &Event{
		id:   uuid.NewString(),
		data: data,
	}
}

// ID returns the identifier assigned at construction.
func (e *Event) ID() string {
	return e.id
}

// Data returns the payload currently held.
func (e *Event) Data() any {
	return e.data
}

// SetData replaces the payload.
func (e *Event) SetData(data any) {
	e.data = data
}

func (e *Event) String() string {
	return fmt.Sprintf("Event{id: %s, data: %v}", e.id, e.data)
}

// view hides SetData so OnAfter cannot rewrite the payload.
type view struct {
	e *Event
}

func (v view) ID() string { return v.e.id }

func (v view) Data() any { return v.e.data }

// Get returns the payload of ev if it holds a T. The second result is false
// when the payload is of another type, which is not an error by itself.
func Get[T any](ev event.Event) (T, bool) {
	v, ok := ev.Data().(T)
	return v, ok
}

// Set replaces the payload of ev with data.
func Set[T any](ev event.MutableEvent, data T) {
	ev.SetData(data)
}

// Expect is Get for listeners: a payload that is not a T becomes a
// ErrTypeMismatch failure naming who expected it.
func Expect[T any](ev event.Event, who string) (T, error) {
	v, ok := Get[T](ev)
	if !ok {
		return v, ErrTypeMismatch.New("%s expected %s, got %s", who, typeName[T](), payloadType(ev.Data()))
	}
	return v, nil
}
