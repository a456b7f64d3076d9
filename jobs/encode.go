package jobs

import (
	"bufio"
	"io"
	"os"

	"github.com/egonelbre/exp-huffman-codebook/events"
	"github.com/egonelbre/exp-huffman-codebook/huffman"
)

// EncodeConfig names the files of an encode run.
type EncodeConfig struct {
	Input    string // file to compress
	Codebook string // codebook to write
	Encoded  string // bit-packed stream to write
}

// Encode compresses cfg.Input into a codebook and a bit-packed stream.
//
// The input is read twice: once to count frequencies and once to encode.
// An empty input yields an empty codebook, an empty stream and zero metrics.
func Encode(cfg EncodeConfig, sink events.Sink) (huffman.Summary, error) {
	r := newRun(componentEncoder, sink)
	r.start(events.Fields{
		"input_file":      cfg.Input,
		"output_codebook": cfg.Codebook,
		"output_encoded":  cfg.Encoded,
	})

	freqs, err := countFile(cfg.Input)
	if err != nil {
		return huffman.Summary{}, r.failIO(err)
	}

	cb := huffman.Build(freqs)
	if err := writeCodebook(cfg.Codebook, cb); err != nil {
		return huffman.Summary{}, r.failIO(err)
	}

	if _, err := encodeFile(cfg.Input, cfg.Encoded, cb.Codes()); err != nil {
		return huffman.Summary{}, r.failIO(err)
	}

	s := huffman.Summarize(cb)
	fields := summaryFields(s)
	fields["input_file"] = cfg.Input
	fields["output_codebook"] = cfg.Codebook
	fields["output_encoded"] = cfg.Encoded
	r.summary(fields)
	r.finish(statusOK)
	return s, nil
}

func summaryFields(s huffman.Summary) events.Fields {
	return events.Fields{
		"num_symbols":                s.TotalSymbols,
		"distinct_symbols":           int64(s.DistinctSymbols),
		"fixed_code_bits_per_symbol": int64(huffman.FixedBitsPerSymbol),
		"entropy_bits_per_symbol":    s.Entropy,
		"perplexity":                 s.Perplexity,
		"huffman_bits_per_symbol":    s.AverageCodeLength,
		"total_bits_fixed":           s.FixedBits,
		"total_bits_huffman":         s.HuffmanBits,
		"compression_ratio":          s.CompressionRatio,
		"saving_percentage":          s.SavedPercent,
	}
}

func countFile(path string) (*huffman.Frequencies, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Reason: ReasonOpenInput, Path: path, Err: err}
	}
	defer f.Close()

	freqs, err := huffman.CountFrequencies(f)
	if err != nil {
		return nil, &IOError{Reason: ReasonReadInput, Path: path, Err: err}
	}
	return freqs, nil
}

func writeCodebook(path string, cb *huffman.Codebook) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Reason: ReasonWriteCodebook, Path: path, Err: err}
	}
	defer closeFile(f, ReasonWriteCodebook, &err)

	if _, err := cb.WriteTo(f); err != nil {
		return &IOError{Reason: ReasonWriteCodebook, Path: path, Err: err}
	}
	return nil
}

// encodeFile writes the bit-packed form of input to output and returns the
// number of code bits written.
func encodeFile(input, output string, codes *huffman.CodeTable) (bits int64, err error) {
	in, err := os.Open(input)
	if err != nil {
		return 0, &IOError{Reason: ReasonOpenInput, Path: input, Err: err}
	}
	defer in.Close()

	out, err := os.Create(output)
	if err != nil {
		return 0, &IOError{Reason: ReasonOpenEncoded, Path: output, Err: err}
	}
	defer closeFile(out, ReasonWriteEncoded, &err)

	enc := huffman.NewEncoder(out, codes)
	br := bufio.NewReader(in)
	buf := make([]byte, 32*1024)
	for {
		n, rerr := br.Read(buf)
		if _, werr := enc.Write(buf[:n]); werr != nil {
			return enc.Bits(), &IOError{Reason: ReasonWriteEncoded, Path: output, Err: werr}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return enc.Bits(), &IOError{Reason: ReasonReadInput, Path: input, Err: rerr}
		}
	}
	if err := enc.Close(); err != nil {
		return enc.Bits(), &IOError{Reason: ReasonWriteEncoded, Path: output, Err: err}
	}
	return enc.Bits(), nil
}
