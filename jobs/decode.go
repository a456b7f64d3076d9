package jobs

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/egonelbre/exp-huffman-codebook/events"
	"github.com/egonelbre/exp-huffman-codebook/huffman"
)

// DecodeConfig names the files of a decode run.
type DecodeConfig struct {
	Codebook string // codebook written by Encode
	Encoded  string // bit-packed stream written by Encode
	Output   string // file to write the recovered bytes to
}

// DecodeResult describes a finished decode run.
type DecodeResult struct {
	Decoded  int64 // symbols written to the output
	Expected int64 // sum of the codebook counts
	Skipped  int   // codebook lines that could not be parsed
}

// Decode recovers the original bytes from a codebook and a bit-packed stream.
//
// An invalid codeword aborts the run with a *huffman.DecodeError; bytes
// already written stay in the output file. A stream that ends early is
// reported as ErrCountMismatch after the output file is closed normally.
func Decode(cfg DecodeConfig, sink events.Sink) (DecodeResult, error) {
	r := newRun(componentDecoder, sink)
	r.start(events.Fields{
		"input_encoded":  cfg.Encoded,
		"input_codebook": cfg.Codebook,
		"output_file":    cfg.Output,
	})

	cb, err := readCodebook(cfg.Codebook)
	if err != nil {
		return DecodeResult{}, r.failIO(err)
	}

	res := DecodeResult{Expected: cb.Total(), Skipped: cb.Skipped}
	res.Decoded, err = decodeFile(cfg.Encoded, cfg.Output, cb)

	var decodeErr *huffman.DecodeError
	var ioErr *IOError
	var mismatch *huffman.CountMismatchError
	switch {
	case err == nil:
	case errors.As(err, &decodeErr):
		return res, r.fail(err, events.Fields{
			"reason":       ReasonInvalidCode,
			"bit_position": decodeErr.Position,
			"detail":       "unexpected_prefix",
		})
	case errors.As(err, &ioErr):
		// a short stream whose output failed to close is an output failure
		return res, r.failIO(err)
	case errors.As(err, &mismatch):
	default:
		return res, r.failIO(err)
	}

	status := statusOK
	if res.Decoded != res.Expected {
		status = statusMismatch
	}
	r.summary(events.Fields{
		"input_encoded":       cfg.Encoded,
		"input_codebook":      cfg.Codebook,
		"output_file":         cfg.Output,
		"num_decoded_symbols": res.Decoded,
		"expected_symbols":    res.Expected,
		"skipped_lines":       int64(res.Skipped),
		"status":              status,
	})

	if status != statusOK {
		r.finish(statusError)
		return res, fmt.Errorf("%w: decoded %d of %d symbols", ErrCountMismatch, res.Decoded, res.Expected)
	}
	r.finish(statusOK)
	return res, nil
}

func readCodebook(path string) (*huffman.Codebook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Reason: ReasonOpenCodebook, Path: path, Err: err}
	}
	defer f.Close()

	cb, err := huffman.ParseCodebook(f)
	if err != nil {
		return nil, &IOError{Reason: ReasonReadCodebook, Path: path, Err: err}
	}
	return cb, nil
}

// decodeFile decodes the stream in input into output and returns the number
// of symbols written. Decode errors are returned unwrapped.
func decodeFile(input, output string, cb *huffman.Codebook) (decoded int64, err error) {
	in, err := os.Open(input)
	if err != nil {
		return 0, &IOError{Reason: ReasonOpenEncoded, Path: input, Err: err}
	}
	defer in.Close()

	out, err := os.Create(output)
	if err != nil {
		return 0, &IOError{Reason: ReasonOpenOutput, Path: output, Err: err}
	}
	defer closeFile(out, ReasonWriteOutput, &err)

	w := &trackedWriter{w: out}
	dec := huffman.NewDecoder(in, cb)
	if _, err := dec.WriteTo(w); err != nil {
		switch {
		case w.err != nil:
			return dec.Decoded(), &IOError{Reason: ReasonWriteOutput, Path: output, Err: err}
		case isDecodeFailure(err):
			return dec.Decoded(), err
		default:
			return dec.Decoded(), &IOError{Reason: ReasonReadEncoded, Path: input, Err: err}
		}
	}
	return dec.Decoded(), nil
}

func isDecodeFailure(err error) bool {
	var decodeErr *huffman.DecodeError
	var mismatch *huffman.CountMismatchError
	return errors.As(err, &decodeErr) || errors.As(err, &mismatch)
}

// trackedWriter remembers whether a failure came from the output side.
type trackedWriter struct {
	w   io.Writer
	err error
}

func (t *trackedWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil && t.err == nil {
		t.err = err
	}
	return n, err
}
