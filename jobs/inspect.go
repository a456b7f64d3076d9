package jobs

import (
	"io"
	"strconv"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/egonelbre/exp-huffman-codebook/huffman"
)

// Report describes a codebook file on its own, without the stream.
type Report struct {
	Path            string          `json:"path"`
	Entries         []ReportEntry   `json:"entries"`
	Skipped         int             `json:"skipped_lines"`
	ExpectedSymbols int64           `json:"expected_symbols"`
	PrefixFree      bool            `json:"prefix_free"`
	Summary         huffman.Summary `json:"summary"`
}

// ReportEntry is a codebook entry with a printable symbol.
type ReportEntry struct {
	Symbol          string  `json:"symbol"`
	Byte            int     `json:"byte"`
	Count           int64   `json:"count"`
	Probability     float64 `json:"probability"`
	Code            string  `json:"code"`
	SelfInformation float64 `json:"self_information"`
}

// Inspect parses the codebook at path and computes its metrics.
func Inspect(path string) (*Report, error) {
	cb, err := readCodebook(path)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Path:            path,
		Entries:         make([]ReportEntry, 0, len(cb.Entries)),
		Skipped:         cb.Skipped,
		ExpectedSymbols: cb.Total(),
		PrefixFree:      cb.Codes().PrefixFree(),
		Summary:         huffman.Summarize(cb),
	}
	for _, e := range cb.Entries {
		rep.Entries = append(rep.Entries, ReportEntry{
			Symbol:          printableSymbol(e.Symbol),
			Byte:            int(e.Symbol),
			Count:           e.Count,
			Probability:     e.Probability,
			Code:            e.Code,
			SelfInformation: e.SelfInformation,
		})
	}
	return rep, nil
}

func printableSymbol(b byte) string {
	q := strconv.QuoteToASCII(string([]byte{b}))
	return q[1 : len(q)-1]
}

// WriteJSON writes the report as indented JSON.
func (rep *Report) WriteJSON(w io.Writer) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteText writes the report as an aligned table followed by its summary.
func (rep *Report) WriteText(w io.Writer) error {
	p := message.NewPrinter(language.English) // For commas between thousands

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	p.Fprintf(tw, "symbol\tbyte\tcount\tprobability\tcode\tself-info\t\n")
	for _, e := range rep.Entries {
		p.Fprintf(tw, "%s\t%d\t%d\t%.6f\t%s\t%.3f\t\n",
			e.Symbol, e.Byte, e.Count, e.Probability, e.Code, e.SelfInformation)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if _, err := p.Fprintf(w, "\ncodebook %s: %d entries, %d skipped lines, prefix-free: %v\n",
		rep.Path, len(rep.Entries), rep.Skipped, rep.PrefixFree); err != nil {
		return err
	}
	return WriteSummary(w, rep.Summary)
}

// WriteSummary writes the metrics of a code in human readable form.
func WriteSummary(w io.Writer, s huffman.Summary) error {
	p := message.NewPrinter(language.English) // For commas between thousands
	_, err := p.Fprintf(w,
		"symbols:        %d (%d distinct)\n"+
			"entropy:        %.3f bits/symbol (perplexity %.3f)\n"+
			"average code:   %.3f bits/symbol\n"+
			"fixed bits:     %d\n"+
			"huffman bits:   %d (%d bytes)\n"+
			"ratio:          %.3f (%.2f%% saved)\n",
		s.TotalSymbols, s.DistinctSymbols,
		s.Entropy, s.Perplexity,
		s.AverageCodeLength,
		s.FixedBits,
		s.HuffmanBits, s.EncodedSize(),
		s.CompressionRatio, s.SavedPercent)
	return err
}
