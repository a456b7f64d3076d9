package huffman

import (
	"fmt"
	"io"

	"github.com/icza/bitio"
)

// Encoder packs codewords into bytes, most significant bit first.
type Encoder struct {
	output *bitio.Writer
	codes  *CodeTable
	bits   int64 // Number of bits written so far
}

// NewEncoder creates an encoder that writes the codes of symbols to w.
// The encoder does not close w.
func NewEncoder(w io.Writer, codes *CodeTable) *Encoder {
	return &Encoder{
		output: bitio.NewWriter(w),
		codes:  codes,
	}
}

// Write encodes every byte of p.
func (e *Encoder) Write(p []byte) (n int, err error) {
	for i, b := range p {
		if err = e.WriteByte(b); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// WriteByte encodes a single symbol.
func (e *Encoder) WriteByte(b byte) error {
	code := e.codes[b]
	if code == "" {
		return fmt.Errorf("%w: %#02x", ErrNoCode, b)
	}
	for i := 0; i < len(code); i++ {
		if err := e.output.WriteBool(code[i] == '1'); err != nil {
			return err
		}
	}
	e.bits += int64(len(code))
	return nil
}

// Bits returns the number of code bits written, excluding padding.
func (e *Encoder) Bits() int64 { return e.bits }

// Close pads the final partial byte with zero bits and flushes it.
func (e *Encoder) Close() error {
	return e.output.Close()
}
