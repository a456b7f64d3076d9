// Package jobs runs the codec against files and reports every run through
// an events.Sink.
//
// Each file is open only for the phase that needs it and is closed on every
// return path. A run always ends with a finish event carrying status ok or
// error.
package jobs

import (
	"errors"
	"os"

	"github.com/dchest/uniuri"

	"github.com/egonelbre/exp-huffman-codebook/events"
)

const (
	componentEncoder = "encoder"
	componentDecoder = "decoder"
	componentMetrics = "metrics"

	statusOK       = "ok"
	statusError    = "error"
	statusMismatch = "mismatch"

	runIDLength = 10
)

// run emits the events of a single encode or decode invocation.
type run struct {
	component string
	sink      events.Sink
}

func newRun(component string, sink events.Sink) *run {
	if sink == nil {
		sink = events.Discard
	}
	return &run{
		component: component,
		sink:      events.WithFields(sink, events.Fields{"run": uniuri.NewLen(runIDLength)}),
	}
}

func (r *run) emit(component, name string, fields events.Fields) {
	r.sink.Emit(events.Event{Component: component, Name: name, Fields: fields})
}

func (r *run) start(fields events.Fields) {
	r.emit(r.component, events.Start, fields)
}

func (r *run) summary(fields events.Fields) {
	r.emit(componentMetrics, events.Summary, fields)
}

func (r *run) finish(status string) {
	r.emit(r.component, events.Finish, events.Fields{"status": status})
}

// fail reports err and ends the run with status error.
func (r *run) fail(err error, fields events.Fields) error {
	if fields == nil {
		fields = events.Fields{}
	}
	fields["error"] = err.Error()
	r.emit(r.component, events.Error, fields)
	r.finish(statusError)
	return err
}

// failIO reports a file failure with its reason code and path.
func (r *run) failIO(err error) error {
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return r.fail(err, events.Fields{"reason": ioErr.Reason, "file": ioErr.Path})
	}
	return r.fail(err, nil)
}

// closeFile closes f and records a close failure in err, joined with any
// error already there.
func closeFile(f *os.File, reason string, err *error) {
	if cerr := f.Close(); cerr != nil {
		*err = errors.Join(*err, &IOError{Reason: reason, Path: f.Name(), Err: cerr})
	}
}
