package eventbus

import (
	"github.com/opdss/eventbus/contracts/event"
	"github.com/opdss/eventbus/contracts/iterator"
)

var _ iterator.Iterator[event.Event] = (*pendingIterator)(nil)

// pendingIterator 待发布事件的只读迭代器
type pendingIterator struct {
	index  int
	events []*Event
}

func newPendingIterator(events []*Event) *pendingIterator {
	return &pendingIterator{events: events}
}

func (it *pendingIterator) Next() bool {
	return it.index < len(it.events)
}

func (it *pendingIterator) Value() event.Event {
	defer func() {
		it.index++
	}()
	if it.index < len(it.events) {
		return view{e: it.events[it.index]}
	}
	return nil
}
