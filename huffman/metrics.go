package huffman

import "math"

// FixedBitsPerSymbol is the width of the uncompressed baseline code.
const FixedBitsPerSymbol = 8

// Summary holds the derived metrics of a code.
type Summary struct {
	TotalSymbols    int64 `json:"total_symbols"`
	DistinctSymbols int   `json:"distinct_symbols"`

	Entropy           float64 `json:"entropy"`             // bits per symbol
	Perplexity        float64 `json:"perplexity"`          // 2^Entropy
	AverageCodeLength float64 `json:"average_code_length"` // bits per symbol, weighted by probability

	FixedBits   int64 `json:"fixed_bits"`   // TotalSymbols * FixedBitsPerSymbol
	HuffmanBits int64 `json:"huffman_bits"` // code bits, excluding padding

	CompressionRatio float64 `json:"compression_ratio"` // FixedBits / HuffmanBits
	SavedPercent     float64 `json:"saved_percent"`     // 100 * (1 - HuffmanBits/FixedBits)
}

// Summarize computes the metrics of cb from its counts and codes.
// An empty codebook yields all zero metrics.
func Summarize(cb *Codebook) Summary {
	var s Summary
	s.TotalSymbols = cb.Total()
	s.DistinctSymbols = len(cb.Entries)
	if s.TotalSymbols == 0 {
		return s
	}

	total := float64(s.TotalSymbols)
	for _, e := range cb.Entries {
		if e.Count == 0 {
			continue
		}
		p := float64(e.Count) / total
		s.Entropy += p * math.Log2(1/p)
		s.AverageCodeLength += p * float64(len(e.Code))
		s.HuffmanBits += e.Count * int64(len(e.Code))
	}
	s.Perplexity = math.Pow(2, s.Entropy)
	s.FixedBits = s.TotalSymbols * FixedBitsPerSymbol

	if s.HuffmanBits > 0 {
		s.CompressionRatio = float64(s.FixedBits) / float64(s.HuffmanBits)
	}
	s.SavedPercent = 100 * (1 - float64(s.HuffmanBits)/float64(s.FixedBits))
	return s
}

// EncodedSize returns the number of bytes the bit-packed stream occupies.
func (s Summary) EncodedSize() int64 {
	return (s.HuffmanBits + 7) / 8
}
