package eventbus

import (
	"strings"

	"go.uber.org/zap"
)

// Policy decides how far a listener failure reaches.
type Policy int

const (
	// FailFast aborts the whole publish call and returns the failure.
	FailFast Policy = iota
	// SkipTopic drops the failed event and every later event of the same
	// topic; other topics are still processed.
	SkipTopic
	// SkipEvent drops only the remaining stages of the failed event.
	SkipEvent
)

func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case SkipTopic:
		return "skip-topic"
	case SkipEvent:
		return "skip-event"
	default:
		return "unknown"
	}
}

// ParsePolicy parses the String form of a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fail-fast", "failfast", "":
		return FailFast, nil
	case "skip-topic", "best-effort":
		return SkipTopic, nil
	case "skip-event":
		return SkipEvent, nil
	}
	return FailFast, Error.New("unknown failure policy %q", s)
}

type Option func(b *Bus)

// WithFailFast selects FailFast when true and SkipTopic when false.
func WithFailFast(failFast bool) Option {
	return func(b *Bus) {
		if failFast {
			b.policy = FailFast
		} else {
			b.policy = SkipTopic
		}
	}
}

func WithPolicy(p Policy) Option {
	return func(b *Bus) {
		b.policy = p
	}
}

// WithLogger sets the trace sink. Nil keeps the no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}
