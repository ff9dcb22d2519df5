package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventConstruct EventType = "construct"
	EventEvaluate  EventType = "evaluate"
)

// Automaton sources reported by ConstructEvent.
const (
	SourceBuild = "build" // generated from the construction rule
	SourceCache = "cache" // served by the in-process cache
	SourceStore = "store" // loaded from an external store
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Modulus   int       `json:"modulus"`
}

// ConstructEvent is emitted when an automaton is obtained for a modulus.
type ConstructEvent struct {
	EventBase
	Source string `json:"source"`
	Err    error  `json:"-"`
}

// EvaluateEvent is emitted after a remainder evaluation.
type EvaluateEvent struct {
	EventBase
	Symbols   int           `json:"symbols"`
	Remainder int           `json:"remainder"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnConstruct func(context.Context, *ConstructEvent)
	OnEvaluate  func(context.Context, *EvaluateEvent)
}
