package events

import (
	"sync"

	"seatrace/core/types"
)

// Event represents a structured state change emitted by a ledger engine.
type Event interface {
	EventType() string
	Event() *types.Event
}

// Emitter broadcasts events to downstream subscribers (e.g. RPC, gateway).
type Emitter interface {
	Emit(Event)
}

// NoopEmitter satisfies the Emitter interface while discarding all events. It
// is useful when a component wants to optionally expose events.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}

// MemoryEmitter retains emitted events in order. The provenance node uses it
// to surface recent ledger activity through the gateway. Safe for concurrent
// use; engines emit from request goroutines while the gateway reads.
type MemoryEmitter struct {
	mu     sync.Mutex
	limit  int
	events []*types.Event
}

// NewMemoryEmitter constructs an emitter that retains at most limit events,
// discarding the oldest first. A non-positive limit retains everything.
func NewMemoryEmitter(limit int) *MemoryEmitter {
	return &MemoryEmitter{limit: limit}
}

// Emit implements the Emitter interface.
func (m *MemoryEmitter) Emit(evt Event) {
	if m == nil || evt == nil {
		return
	}
	payload := evt.Event()
	if payload == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, payload)
	if m.limit > 0 && len(m.events) > m.limit {
		m.events = m.events[len(m.events)-m.limit:]
	}
}

// Events returns a copy of the retained event log, oldest first.
func (m *MemoryEmitter) Events() []*types.Event {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*types.Event, len(m.events))
	copy(out, m.events)
	return out
}
