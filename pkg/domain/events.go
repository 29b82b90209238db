package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventComposeStart  EventType = "compose_start"
	EventStateAdded    EventType = "state_added"
	EventPairRejected  EventType = "pair_rejected"
	EventComposeFinish EventType = "compose_finish"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// ComposeEvent describes a whole composition run.
type ComposeEvent struct {
	EventBase
	LeftTapes   int           `json:"left_tapes"`
	RightTapes  int           `json:"right_tapes"`
	OutputTapes int           `json:"output_tapes"`
	Glue        int           `json:"glue"`
	States      int           `json:"states,omitempty"`
	Transitions int           `json:"transitions,omitempty"`
	Finals      int           `json:"finals,omitempty"`
	Rejected    int           `json:"rejected,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
	Err         error         `json:"-"`
}

// StateEvent describes one product state being realized in the output.
type StateEvent struct {
	EventBase
	Left       int `json:"left"`
	Right      int `json:"right"`
	Output     int `json:"output"`
	Backlog    int `json:"backlog"`
	QueueDepth int `json:"queue_depth"`
}

// ComposeHooks defines callbacks for composition observability.
// Any field may be nil.
type ComposeHooks struct {
	OnStart        func(context.Context, *ComposeEvent)
	OnStateAdded   func(context.Context, *StateEvent)
	OnPairRejected func(context.Context, *StateEvent)
	OnFinish       func(context.Context, *ComposeEvent)
}

// Merge returns hooks that call h first and then other.
func (h ComposeHooks) Merge(other ComposeHooks) ComposeHooks {
	return ComposeHooks{
		OnStart:        chain(h.OnStart, other.OnStart),
		OnStateAdded:   chain(h.OnStateAdded, other.OnStateAdded),
		OnPairRejected: chain(h.OnPairRejected, other.OnPairRejected),
		OnFinish:       chain(h.OnFinish, other.OnFinish),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
