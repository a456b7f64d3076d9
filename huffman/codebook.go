package huffman

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// CodeTable maps a symbol to its code, a string over {'0', '1'}.
// Symbols that do not occur have an empty code.
type CodeTable [AlphabetSize]string

// Has reports whether sym has a code.
func (c *CodeTable) Has(sym byte) bool { return c[sym] != "" }

// PrefixFree reports whether no code is a prefix of another code.
func (c *CodeTable) PrefixFree() bool {
	codes := make([]string, 0, AlphabetSize)
	for _, code := range c {
		if code != "" {
			codes = append(codes, code)
		}
	}
	// after sorting, a prefix always sorts directly before some code it prefixes
	sort.Strings(codes)
	for i := 1; i < len(codes); i++ {
		if strings.HasPrefix(codes[i], codes[i-1]) {
			return false
		}
	}
	return true
}

// Entry is a single codebook record.
type Entry struct {
	Symbol          byte
	Count           int64
	Probability     float64
	Code            string
	SelfInformation float64
}

// Codebook is the portable description of a code.
//
// Only Count and Code are needed for decoding, the other fields are
// diagnostic.
type Codebook struct {
	Entries []Entry
	// Skipped is the number of lines ParseCodebook could not parse.
	Skipped int
}

// NewCodebook builds the codebook for freqs and codes, sorted ascending by
// (count, symbol).
func NewCodebook(freqs *Frequencies, codes *CodeTable) *Codebook {
	cb := &Codebook{}
	for sym, count := range freqs.Counts {
		if count == 0 {
			continue
		}
		p := float64(count) / float64(freqs.Total)
		cb.Entries = append(cb.Entries, Entry{
			Symbol:          byte(sym),
			Count:           count,
			Probability:     p,
			Code:            codes[sym],
			SelfInformation: math.Log2(1 / p),
		})
	}
	sort.SliceStable(cb.Entries, func(i, j int) bool {
		a, b := &cb.Entries[i], &cb.Entries[j]
		if a.Count != b.Count {
			return a.Count < b.Count
		}
		return a.Symbol < b.Symbol
	})
	return cb
}

// Total returns the sum of all counts, which is the number of symbols a
// decoder must produce.
func (cb *Codebook) Total() int64 {
	var total int64
	for _, e := range cb.Entries {
		total += e.Count
	}
	return total
}

// Codes returns the code table described by the codebook.
func (cb *Codebook) Codes() *CodeTable {
	codes := &CodeTable{}
	for _, e := range cb.Entries {
		codes[e.Symbol] = e.Code
	}
	return codes
}

// WriteTo writes one line per entry:
//
//	"<symbol>",<count>,<probability>,"<code>",<self_information>
func (cb *Codebook) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64
	for _, e := range cb.Entries {
		n, err := bw.WriteString(FormatEntry(e))
		written += int64(n)
		if err != nil {
			return written, err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return written, err
		}
		written++
	}
	return written, bw.Flush()
}

// FormatEntry renders e as a single codebook line without the newline.
func FormatEntry(e Entry) string {
	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(escapeSymbol(e.Symbol))
	b.WriteString(`",`)
	b.WriteString(strconv.FormatInt(e.Count, 10))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(e.Probability, 'f', 15, 64))
	b.WriteString(`,"`)
	b.WriteString(e.Code)
	b.WriteString(`",`)
	b.WriteString(strconv.FormatFloat(e.SelfInformation, 'f', 15, 64))
	return b.String()
}

func escapeSymbol(sym byte) string {
	switch sym {
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	case '"':
		return `\"`
	case '\\':
		return `\\`
	}
	return string([]byte{sym})
}

// unescapeSymbol accepts everything escapeSymbol produces plus `\0`;
// any other escaped character stands for itself.
func unescapeSymbol(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	}
	return c
}

// ParseCodebook reads a codebook line by line.
//
// Lines that do not have the codebook shape are skipped and counted in
// Codebook.Skipped. Codes are not checked for being prefix-free; a bad code
// surfaces as a DecodeError while decoding. Only read errors are returned.
func ParseCodebook(r io.Reader) (*Codebook, error) {
	cb := &Codebook{}
	br := bufio.NewReaderSize(r, maxLineLength)
	for {
		line, isPrefix, err := br.ReadLine()
		if err == io.EOF {
			return cb, nil
		}
		if err != nil {
			return cb, err
		}
		if isPrefix {
			// no record is this long
			cb.Skipped++
			if err := skipLine(br); err != nil {
				return cb, err
			}
			continue
		}
		if len(line) == 0 {
			continue
		}
		e, err := ParseLine(string(line))
		if err != nil {
			cb.Skipped++
			continue
		}
		cb.Entries = append(cb.Entries, e)
	}
}

// maxLineLength bounds the codebook lines ParseCodebook tries to parse.
const maxLineLength = 64 * 1024

// skipLine discards the remainder of an overlong line.
func skipLine(br *bufio.Reader) error {
	for {
		_, isPrefix, err := br.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil || !isPrefix {
			return err
		}
	}
}

// ParseLine parses a single codebook line.
func ParseLine(line string) (Entry, error) {
	var e Entry
	line = strings.TrimSuffix(line, "\r")

	if len(line) < 3 || line[0] != '"' {
		return e, fmt.Errorf("%w: missing symbol", ErrMalformedLine)
	}
	rest := line[1:]
	if rest[0] == '\\' {
		e.Symbol = unescapeSymbol(rest[1])
		rest = rest[2:]
	} else {
		e.Symbol = rest[0]
		rest = rest[1:]
	}
	if !strings.HasPrefix(rest, `",`) {
		return e, fmt.Errorf("%w: unterminated symbol", ErrMalformedLine)
	}
	rest = rest[2:]

	// anything after the fourth field is ignored
	fields := strings.Split(rest, ",")
	if len(fields) < 4 {
		return e, fmt.Errorf("%w: expected 4 fields after symbol, got %d", ErrMalformedLine, len(fields))
	}

	var err error
	if e.Count, err = strconv.ParseInt(fields[0], 10, 64); err != nil || e.Count < 0 {
		return e, fmt.Errorf("%w: count %q", ErrMalformedLine, fields[0])
	}
	if e.Probability, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return e, fmt.Errorf("%w: probability %q", ErrMalformedLine, fields[1])
	}
	code := fields[2]
	if len(code) < 3 || code[0] != '"' || code[len(code)-1] != '"' {
		return e, fmt.Errorf("%w: code %q", ErrMalformedLine, code)
	}
	code = code[1 : len(code)-1]
	if strings.Trim(code, "01") != "" {
		return e, fmt.Errorf("%w: code %q", ErrMalformedLine, code)
	}
	e.Code = code
	if e.SelfInformation, err = strconv.ParseFloat(strings.TrimSpace(fields[3]), 64); err != nil {
		return e, fmt.Errorf("%w: self information %q", ErrMalformedLine, fields[3])
	}
	return e, nil
}
