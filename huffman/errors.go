package huffman

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedLine is returned by ParseLine for a line without the codebook shape.
	ErrMalformedLine = errors.New("malformed codebook line")
	// ErrNoCode is returned when encoding a symbol the code table has no code for.
	ErrNoCode = errors.New("symbol has no code")
)

// DecodeError reports a bit path that leaves the decode trie.
type DecodeError struct {
	// Position is the 1-indexed bit position since the start of the stream.
	Position int64
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid codeword at bit %d", e.Position)
}

// CountMismatchError reports a stream that ended before the expected number
// of symbols was decoded.
type CountMismatchError struct {
	Decoded  int64
	Expected int64
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("decoded %d symbols, expected %d", e.Decoded, e.Expected)
}
