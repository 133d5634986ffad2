package scenario

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/opdss/eventbus/eventbus"
)

// Payload types understood in scenario files.
const (
	TypeString = "string"
	TypeNumber = "number"
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeBool   = "bool"
	TypeRaw    = "raw"
)

// NewEvent builds the event described by spec.
func NewEvent(spec EventSpec) (*eventbus.Event, error) {
	v, err := payload(spec)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return eventbus.NewEvent(v), nil
}

// payload coerces the yaml value to the declared type. Numbers are uint32,
// which is what the increment listener expects.
func payload(spec EventSpec) (interface{}, error) {
	switch spec.Type {
	case TypeString, "":
		return cast.ToStringE(spec.Value)
	case TypeNumber:
		return cast.ToUint32E(spec.Value)
	case TypeInt:
		return cast.ToIntE(spec.Value)
	case TypeFloat:
		return cast.ToFloat64E(spec.Value)
	case TypeBool:
		return cast.ToBoolE(spec.Value)
	case TypeRaw:
		return spec.Value, nil
	}
	return nil, fmt.Errorf("unknown payload type %q", spec.Type)
}
