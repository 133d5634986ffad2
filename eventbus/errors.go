package eventbus

import (
	"fmt"
	"reflect"

	"github.com/zeebo/errs"
)

var (
	// Error is the class of errors raised by the bus itself.
	Error = errs.Class("eventbus")
	// ErrTypeMismatch marks a listener failure caused by an unexpected payload type.
	ErrTypeMismatch = errs.Class("type mismatch")
	// ErrListenerPanic wraps a panic recovered from a listener stage.
	ErrListenerPanic = errs.Class("listener panic")
)

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

func payloadType(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
