package eventbus

import (
	"reflect"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/exp/maps"

	"github.com/opdss/eventbus/contracts/event"
	"github.com/opdss/eventbus/contracts/iterator"
)

var _ event.Publisher = (*Bus)(nil)

// Bus queues events per topic and hands them to the topic's listeners on
// Publish.
//
// A Bus is not safe for concurrent use; guard it externally if it is shared
// between goroutines.
type Bus struct {
	events     map[event.Topic][]*Event
	order      []event.Topic
	listeners  map[event.Topic][]event.Listener
	suppressed map[reflect.Type]struct{}

	policy Policy
	logger *zap.Logger
}

// New creates an empty bus. The default policy is FailFast.
func New(opts ...Option) *Bus {
	b := &Bus{
		events:     make(map[event.Topic][]*Event),
		listeners:  make(map[event.Topic][]event.Listener),
		suppressed: make(map[reflect.Type]struct{}),
		policy:     FailFast,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Policy returns the configured failure policy.
func (b *Bus) Policy() Policy {
	return b.policy
}

// Register queues ev under topic. A nil ev is queued as an event with a nil
// payload.
func (b *Bus) Register(topic event.Topic, ev *Event) *Bus {
	if ev == nil {
		ev = NewEvent(nil)
	}
	b.logger.Info("register event",
		zap.String("topic", topic),
		zap.String("event", ev.ID()),
		zap.String("type", payloadType(ev.Data())))

	if _, ok := b.events[topic]; !ok {
		b.order = append(b.order, topic)
	}
	b.events[topic] = append(b.events[topic], ev)
	return b
}

// Subscribe appends l to the listeners of topic. The same listener may be
// subscribed more than once and then runs once per subscription.
func (b *Bus) Subscribe(topic event.Topic, l event.Listener) *Bus {
	if l == nil {
		b.logger.Warn("ignore nil listener", zap.String("topic", topic))
		return b
	}
	b.listeners[topic] = append(b.listeners[topic], l)
	return b
}

// Suppress excludes every listener with the same concrete type as l from
// publishing until Unsuppress is called. Subscriptions are kept.
func (b *Bus) Suppress(l event.Listener) *Bus {
	if l != nil {
		b.suppressed[reflect.TypeOf(l)] = struct{}{}
	}
	return b
}

func (b *Bus) Unsuppress(l event.Listener) *Bus {
	if l != nil {
		delete(b.suppressed, reflect.TypeOf(l))
	}
	return b
}

// Clear drops every queued event without calling any listener.
func (b *Bus) Clear() {
	if n := b.PendingCount(); n > 0 {
		b.logger.Debug("clear pending events", zap.Int("count", n))
	}
	b.events = make(map[event.Topic][]*Event)
	b.order = nil
}

// Topics returns the sorted topics that have at least one listener.
func (b *Bus) Topics() []event.Topic {
	topics := maps.Keys(b.listeners)
	slices.Sort(topics)
	return topics
}

// PendingCount returns the number of queued events across all topics.
func (b *Bus) PendingCount() int {
	n := 0
	for _, queue := range b.events {
		n += len(queue)
	}
	return n
}

// Pending iterates over a snapshot of the events queued under topic.
func (b *Bus) Pending(topic event.Topic) iterator.Iterator[event.Event] {
	return newPendingIterator(slices.Clone(b.events[topic]))
}

// Publish delivers every queued event. See Flush.
func (b *Bus) Publish() error {
	_, err := b.Flush()
	return err
}

// Flush takes all queued events, leaving the bus empty, and runs them topic
// by topic in order of first registration. Within a topic events run in
// registration order; for each event OnBefore runs for every listener, then
// OnEvent, then OnAfter.
//
// A failing stage ends the event. Under FailFast the failure is returned and
// nothing else runs; under SkipTopic the rest of the topic's queue is
// dropped; under SkipEvent the next event of the topic is processed.
func (b *Bus) Flush() (Report, error) {
	events, order := b.events, b.order
	b.events = make(map[event.Topic][]*Event)
	b.order = nil

	var report Report
	for _, topic := range order {
		queue := events[topic]
		listeners := b.active(topic)
		if len(listeners) == 0 {
			b.logger.Warn("no listeners for topic",
				zap.String("topic", topic),
				zap.Int("dropped", len(queue)))
			report.Dropped = append(report.Dropped, Drop{Topic: topic, Count: len(queue)})
			continue
		}

		for i, ev := range queue {
			failure := b.dispatch(topic, listeners, ev)
			if failure == nil {
				report.Delivered++
				continue
			}
			if b.policy != SkipEvent {
				failure.Skipped = len(queue) - i - 1
			}
			report.Failures = append(report.Failures, *failure)
			if b.policy == FailFast {
				return report, failure.Err
			}
			if b.policy == SkipTopic {
				break
			}
		}
	}
	return report, nil
}

func (b *Bus) active(topic event.Topic) []event.Listener {
	subscribed := b.listeners[topic]
	if len(b.suppressed) == 0 {
		return slices.Clone(subscribed)
	}
	listeners := make([]event.Listener, 0, len(subscribed))
	for _, l := range subscribed {
		if _, ok := b.suppressed[reflect.TypeOf(l)]; ok {
			continue
		}
		listeners = append(listeners, l)
	}
	return listeners
}

func (b *Bus) dispatch(topic event.Topic, listeners []event.Listener, ev *Event) *Failure {
	for _, stage := range stages {
		for _, l := range listeners {
			err := call(stage, l, ev)
			if err == nil {
				continue
			}
			b.logger.Error("listener failed",
				zap.String("topic", topic),
				zap.Stringer("stage", stage),
				zap.String("listener", listenerName(l)),
				zap.String("event", ev.ID()),
				zap.Error(err))
			return &Failure{
				Topic:    topic,
				Stage:    stage,
				Listener: listenerName(l),
				EventID:  ev.ID(),
				Err:      err,
			}
		}
	}
	return nil
}

func call(stage Stage, l event.Listener, ev *Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrListenerPanic.New("%s %s: %v", listenerName(l), stage, r)
		}
	}()
	switch stage {
	case StageBefore:
		return l.OnBefore(ev)
	case StageEvent:
		return l.OnEvent(ev)
	default:
		return l.OnAfter(view{e: ev})
	}
}
