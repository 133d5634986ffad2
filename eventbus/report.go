package eventbus

import "github.com/opdss/eventbus/contracts/event"

// Report describes what a Flush did.
type Report struct {
	// Delivered counts events that passed all three stages.
	Delivered int
	Dropped   []Drop
	Failures  []Failure
}

// OK reports whether no listener failed.
func (r Report) OK() bool {
	return len(r.Failures) == 0
}

// DroppedCount is the number of events discarded for lack of listeners.
func (r Report) DroppedCount() int {
	n := 0
	for _, d := range r.Dropped {
		n += d.Count
	}
	return n
}

// Drop records a topic whose events had no listener.
type Drop struct {
	Topic event.Topic
	Count int
}

// Failure records a failed listener stage.
type Failure struct {
	Topic    event.Topic
	Stage    Stage
	Listener string
	EventID  string
	// Skipped is the number of later events of the topic that were dropped
	// because of this failure.
	Skipped int
	Err     error
}
