package eventbus_test

import (
	"fmt"

	"github.com/opdss/eventbus/contracts/event"
	"github.com/opdss/eventbus/eventbus"
)

type counter struct {
	eventbus.NopListener
}

func (counter) OnBefore(ev event.MutableEvent) error {
	n, err := eventbus.Expect[uint32](ev, "counter")
	if err != nil {
		return err
	}
	eventbus.Set(ev, n+1)
	return nil
}

func (counter) OnEvent(ev event.MutableEvent) error {
	n, err := eventbus.Expect[uint32](ev, "counter")
	if err != nil {
		return err
	}
	fmt.Println("counter received", n)
	return nil
}

func Example() {
	bus := eventbus.New()
	bus.Subscribe("foo", counter{})

	err := bus.
		Register("foo", eventbus.NewEvent(uint32(32))).
		Register("foo", eventbus.NewEvent("hello")).
		Publish()
	fmt.Println(err)
	// Output:
	// counter received 33
	// type mismatch: counter expected uint32, got string
}
