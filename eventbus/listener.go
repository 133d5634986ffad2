package eventbus

import (
	"fmt"

	"github.com/opdss/eventbus/contracts/event"
)

var (
	_ event.Listener = NopListener{}
	_ event.Listener = ListenerFuncs{}
)

// NopListener implements every stage as a successful no-op. Embed it and
// override only the stages you need.
type NopListener struct{}

func (NopListener) OnBefore(event.MutableEvent) error { return nil }

func (NopListener) OnEvent(event.MutableEvent) error { return nil }

func (NopListener) OnAfter(event.Event) error { return nil }

// ListenerFuncs adapts plain functions to a Listener. Nil stages succeed.
type ListenerFuncs struct {
	Before func(event.MutableEvent) error
	On     func(event.MutableEvent) error
	After  func(event.Event) error
}

func (f ListenerFuncs) OnBefore(ev event.MutableEvent) error {
	if f.Before == nil {
		return nil
	}
	return f.Before(ev)
}

func (f ListenerFuncs) OnEvent(ev event.MutableEvent) error {
	if f.On == nil {
		return nil
	}
	return f.On(ev)
}

func (f ListenerFuncs) OnAfter(ev event.Event) error {
	if f.After == nil {
		return nil
	}
	return f.After(ev)
}

// Stage identifies one of the three listener callbacks.
type Stage int

const (
	StageBefore Stage = iota
	StageEvent
	StageAfter
)

func (s Stage) String() string {
	switch s {
	case StageBefore:
		return "on_before"
	case StageEvent:
		return "on_event"
	case StageAfter:
		return "on_after"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

var stages = [...]Stage{StageBefore, StageEvent, StageAfter}

func listenerName(l event.Listener) string {
	return fmt.Sprintf("%T", l)
}
