// Package events carries the semantic events of a codec run to whatever
// renders or stores them.
//
// A run emits a start event, at most one error event, a summary event when
// it got far enough to compute one, and always a terminal finish event.
package events

import "sync"

// Event names.
const (
	Start   = "start"
	Error   = "error"
	Summary = "summary"
	Finish  = "finish"
)

// Fields are the key-value payload of an event.
type Fields map[string]any

// Event is a single semantic record.
type Event struct {
	Component string // encoder, decoder or metrics
	Name      string
	Fields    Fields
}

// Sink receives events.
type Sink interface {
	Emit(e Event)
}

// Discard drops every event.
var Discard Sink = discard{}

type discard struct{}

func (discard) Emit(Event) {}

// Multi emits every event to all of its sinks in order.
type Multi []Sink

func (m Multi) Emit(e Event) {
	for _, s := range m {
		s.Emit(e)
	}
}

// WithFields returns a sink that adds fields to every event before passing
// it to s. Fields of the event take precedence.
func WithFields(s Sink, fields Fields) Sink {
	return &tagged{sink: s, fields: fields}
}

type tagged struct {
	sink   Sink
	fields Fields
}

func (t *tagged) Emit(e Event) {
	merged := make(Fields, len(t.fields)+len(e.Fields))
	for k, v := range t.fields {
		merged[k] = v
	}
	for k, v := range e.Fields {
		merged[k] = v
	}
	e.Fields = merged
	t.sink.Emit(e)
}

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Names returns the names of the recorded events in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.events))
	for i, e := range r.events {
		names[i] = e.Name
	}
	return names
}

// Last returns the last recorded event with the given name.
func (r *Recorder) Last(name string) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Name == name {
			return r.events[i], true
		}
	}
	return Event{}, false
}
