// Package huffman implements a static, two-pass Huffman codec over the
// 256 byte values.
//
// Encoding counts symbol frequencies, builds a code tree, and writes two
// artifacts: a textual codebook and a bit-packed stream. Decoding rebuilds a
// lookup trie from the codebook alone and walks the stream one bit at a time.
// The stream carries no length header; the number of symbols to decode is the
// sum of the counts in the codebook.
package huffman

import (
	"bufio"
	"io"
)

// AlphabetSize is the number of distinct symbols, one per byte value.
const AlphabetSize = 256

// Frequencies holds per-symbol occurrence counts.
type Frequencies struct {
	Counts [AlphabetSize]int64
	Total  int64
}

// CountFrequencies scans r once and counts every byte value.
func CountFrequencies(r io.Reader) (*Frequencies, error) {
	freqs := &Frequencies{}
	br := bufio.NewReader(r)
	buf := make([]byte, 32*1024)
	for {
		n, err := br.Read(buf)
		freqs.add(buf[:n])
		if err == io.EOF {
			return freqs, nil
		}
		if err != nil {
			return freqs, err
		}
	}
}

// CountBytes counts every byte value in data.
func CountBytes(data []byte) *Frequencies {
	freqs := &Frequencies{}
	freqs.add(data)
	return freqs
}

func (f *Frequencies) add(data []byte) {
	for _, b := range data {
		f.Counts[b]++
	}
	f.Total += int64(len(data))
}

// Distinct returns the number of symbols with a non-zero count.
func (f *Frequencies) Distinct() int {
	n := 0
	for _, c := range f.Counts {
		if c > 0 {
			n++
		}
	}
	return n
}
