package jobs

import (
	"errors"
	"fmt"
)

// Reason codes reported in error events.
const (
	ReasonOpenInput     = "cannot_open_input_file"
	ReasonReadInput     = "cannot_read_input_file"
	ReasonOpenCodebook  = "cannot_open_codebook"
	ReasonReadCodebook  = "cannot_read_codebook"
	ReasonWriteCodebook = "cannot_write_codebook"
	ReasonOpenEncoded   = "cannot_open_encoded_file"
	ReasonReadEncoded   = "cannot_read_encoded_file"
	ReasonWriteEncoded  = "cannot_write_encoded_file"
	ReasonOpenOutput    = "cannot_open_output_file"
	ReasonWriteOutput   = "cannot_write_output_file"
	ReasonInvalidCode   = "invalid_codeword"
)

// ErrCountMismatch is returned by Decode when the stream ended before the
// codebook's symbol count was reached. The output file is still complete.
var ErrCountMismatch = errors.New("decoded symbol count does not match codebook")

// IOError is a failure to open, read, write or close a file.
type IOError struct {
	Reason string
	Path   string
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Reason, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
