package events

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"

	"google.golang.org/protobuf/encoding/protodelim"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	componentKey = "component"
	nameKey      = "event"
)

// Recordfile writes events as size-delimited protobuf Struct messages.
//
// Write failures do not interrupt the run that emits the events; the first
// one is kept and reported by Err.
type Recordfile struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

// NewRecordfile returns a sink writing records to w.
func NewRecordfile(w io.Writer) *Recordfile {
	return &Recordfile{w: w}
}

func (r *Recordfile) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}

	msg, err := encodeEvent(e)
	if err != nil {
		r.err = fmt.Errorf("event %s: %w", e.Name, err)
		return
	}
	if _, err := protodelim.MarshalTo(r.w, msg); err != nil {
		r.err = fmt.Errorf("event %s: %w", e.Name, err)
	}
}

// Err returns the first error encountered while writing.
func (r *Recordfile) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func encodeEvent(e Event) (*structpb.Struct, error) {
	m := make(map[string]any, len(e.Fields)+2)
	for k, v := range e.Fields {
		m[k] = v
	}
	m[componentKey] = e.Component
	m[nameKey] = e.Name
	return structpb.NewStruct(m)
}

// ReadRecords reads every record written by a Recordfile.
// Numeric fields are returned as float64.
func ReadRecords(r io.Reader) ([]Event, error) {
	br := bufio.NewReader(r)
	var all []Event
	for {
		msg := &structpb.Struct{}
		err := protodelim.UnmarshalFrom(br, msg)
		if errors.Is(err, io.EOF) {
			return all, nil
		}
		if err != nil {
			return all, fmt.Errorf("record %d: %w", len(all), err)
		}

		fields := Fields(msg.AsMap())
		e := Event{Fields: fields}
		e.Component, _ = fields[componentKey].(string)
		e.Name, _ = fields[nameKey].(string)
		delete(fields, componentKey)
		delete(fields, nameKey)
		all = append(all, e)
	}
}
