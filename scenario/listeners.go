package scenario

import (
	"fmt"
	"io"

	"github.com/opdss/eventbus/contracts/event"
	"github.com/opdss/eventbus/eventbus"
)

// Listener kinds understood in scenario files.
const (
	KindEcho      = "echo"
	KindIncrement = "increment"
	KindNop       = "nop"
)

var listenerKinds = map[string]func(name string, out io.Writer) event.Listener{
	KindEcho: func(name string, out io.Writer) event.Listener {
		return &Echo{Name: name, Out: out}
	},
	KindIncrement: func(name string, out io.Writer) event.Listener {
		return &Increment{Name: name, Out: out}
	},
	KindNop: func(string, io.Writer) event.Listener {
		return eventbus.NopListener{}
	},
}

// NewListener builds the listener described by spec.
func NewListener(spec ListenerSpec, out io.Writer) (event.Listener, error) {
	newListener, ok := listenerKinds[spec.Kind]
	if !ok {
		return nil, Error.New("unknown listener kind %q", spec.Kind)
	}
	name := spec.Name
	if name == "" {
		name = spec.Kind
	}
	return newListener(name, out), nil
}

// Echo prints string payloads and fails on anything else.
type Echo struct {
	eventbus.NopListener
	Name string
	Out  io.Writer
}

func (e *Echo) OnEvent(ev event.MutableEvent) error {
	v, ok := eventbus.Get[string](ev)
	if !ok {
		return fmt.Errorf("%s received UNKNOWN message", e.Name)
	}
	_, _ = fmt.Fprintf(e.Out, "%s received STRING message: %s\n", e.Name, v)
	return nil
}

// Increment adds one to uint32 payloads before printing them.
type Increment struct {
	eventbus.NopListener
	Name string
	Out  io.Writer
}

func (n *Increment) OnBefore(ev event.MutableEvent) error {
	v, ok := eventbus.Get[uint32](ev)
	if !ok {
		return fmt.Errorf("%s received invalid message", n.Name)
	}
	_, _ = fmt.Fprintf(n.Out, "Changing %d into %d\n", v, v+1)
	eventbus.Set(ev, v+1)
	return nil
}

func (n *Increment) OnEvent(ev event.MutableEvent) error {
	v, ok := eventbus.Get[uint32](ev)
	if !ok {
		return fmt.Errorf("%s received invalid message", n.Name)
	}
	_, _ = fmt.Fprintf(n.Out, "%s received u32 message: %d\n", n.Name, v)
	return nil
}
