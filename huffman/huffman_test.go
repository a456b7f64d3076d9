package huffman

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildTreeMergeOrder(t *testing.T) {
	freqs := CountBytes([]byte("aaaabbbcc"))
	tree := BuildTree(freqs)
	require.Equal(t, int64(9), tree.Count())

	codes := tree.Codes()
	require.Equal(t, "0", codes['a'])
	require.Equal(t, "10", codes['c'])
	require.Equal(t, "11", codes['b'])
	for sym := range codes {
		if sym != 'a' && sym != 'b' && sym != 'c' {
			require.False(t, codes.Has(byte(sym)), "unexpected code for %d", sym)
		}
	}
}

func TestBuildTreeEqualCounts(t *testing.T) {
	// all counts equal: earlier queued nodes merge first
	codes := BuildTree(CountBytes([]byte("abcd"))).Codes()
	require.Equal(t, "00", codes['a'])
	require.Equal(t, "01", codes['b'])
	require.Equal(t, "10", codes['c'])
	require.Equal(t, "11", codes['d'])
}

func TestBuildTreeEmpty(t *testing.T) {
	tree := BuildTree(CountBytes(nil))
	require.True(t, tree.Empty())
	require.Equal(t, int64(0), tree.Count())
	require.Equal(t, &CodeTable{}, tree.Codes())
}

func TestCodebookOrder(t *testing.T) {
	cb := Build(CountBytes([]byte("aaaabbbcc")))
	require.Len(t, cb.Entries, 3)

	require.Equal(t, byte('c'), cb.Entries[0].Symbol)
	require.Equal(t, int64(2), cb.Entries[0].Count)
	require.Equal(t, byte('b'), cb.Entries[1].Symbol)
	require.Equal(t, int64(3), cb.Entries[1].Count)
	require.Equal(t, byte('a'), cb.Entries[2].Symbol)
	require.Equal(t, int64(4), cb.Entries[2].Count)

	require.InDelta(t, 4.0/9.0, cb.Entries[2].Probability, 1e-15)
	require.Equal(t, int64(9), cb.Total())
}

func TestCodebookOrderTies(t *testing.T) {
	cb := Build(CountBytes([]byte("zzyyxxq")))
	var syms []byte
	for _, e := range cb.Entries {
		syms = append(syms, e.Symbol)
	}
	require.Equal(t, []byte("qxyz"), syms)
}

func TestEncodeScenario(t *testing.T) {
	cb, stream, err := EncodeBytes([]byte("aaaabbbcc"))
	require.NoError(t, err)
	require.Len(t, cb.Entries, 3)

	// 0000 111111 1010, then two padding bits
	require.Equal(t, []byte{0b0000_1111, 0b1110_1000}, stream)

	s := Summarize(cb)
	require.Equal(t, int64(14), s.HuffmanBits)
	require.Equal(t, int64(72), s.FixedBits)
	require.Equal(t, int64(2), s.EncodedSize())
}

func TestDecodeScenario(t *testing.T) {
	cb := Build(CountBytes([]byte("aaaabbbcc")))

	dec := NewDecoder(bytes.NewReader([]byte{0b0000_1111, 0b1110_1000}), cb)
	var out bytes.Buffer
	_, err := dec.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, "aaaabbbcc", out.String())
	require.Equal(t, int64(9), dec.Decoded())
	require.Equal(t, int64(9), dec.Expected())
	// padding bits are never consumed
	require.Equal(t, int64(14), dec.Position())
}

func TestRoundtrip(t *testing.T) {
	all := make([]byte, 0, 3*AlphabetSize)
	for i := 0; i < AlphabetSize; i++ {
		all = append(all, byte(i))
	}
	all = append(all, all...)
	all = append(all, bytes.Repeat([]byte{0}, 300)...)

	rng := rand.New(rand.NewSource(1))
	random := make([]byte, 10000)
	rng.Read(random)

	skewed := make([]byte, 5000)
	for i := range skewed {
		skewed[i] = byte(rng.ExpFloat64() * 4)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"Empty", nil},
		{"SingleByte", []byte{'x'}},
		{"RepeatedByte", bytes.Repeat([]byte{'x'}, 1000)},
		{"TwoSymbols", []byte("abababababbbbbbb")},
		{"Text", []byte("The quick brown fox jumps over the lazy dog.\n\t\"quoted\" \\ back\r\n")},
		{"AllBytes", all},
		{"Random", random},
		{"Skewed", skewed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cb, stream, err := EncodeBytes(tc.data)
			require.NoError(t, err)

			// through the textual form, as a separate process would
			var text bytes.Buffer
			_, err = cb.WriteTo(&text)
			require.NoError(t, err)
			parsed, err := ParseCodebook(&text)
			require.NoError(t, err)
			require.Zero(t, parsed.Skipped)

			decoded, err := DecodeBytes(parsed, stream)
			require.NoError(t, err)
			require.Equal(t, len(tc.data), len(decoded))
			if len(tc.data) > 0 {
				require.Equal(t, tc.data, decoded)
			}
		})
	}
}

func TestSingleSymbol(t *testing.T) {
	for n := 1; n <= 33; n++ {
		data := bytes.Repeat([]byte{'\n'}, n)
		cb, stream, err := EncodeBytes(data)
		require.NoError(t, err)
		require.Len(t, cb.Entries, 1)
		require.Equal(t, "0", cb.Entries[0].Code)
		require.Equal(t, int64(n), cb.Entries[0].Count)
		require.Len(t, stream, (n+7)/8)
		require.Equal(t, make([]byte, (n+7)/8), stream)

		decoded, err := DecodeBytes(cb, stream)
		require.NoError(t, err)
		require.Equal(t, data, decoded)
	}
}

func TestCodesArePrefixFree(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		data := make([]byte, rng.Intn(2000)+1)
		limit := rng.Intn(255) + 1
		for j := range data {
			data[j] = byte(rng.Intn(limit))
		}
		codes := BuildTree(CountBytes(data)).Codes()
		require.True(t, codes.PrefixFree())
		for _, b := range data {
			require.True(t, codes.Has(b))
		}
	}
}

func TestPrefixFreeDetectsPrefix(t *testing.T) {
	codes := &CodeTable{}
	codes['a'] = "0"
	codes['b'] = "01"
	require.False(t, codes.PrefixFree())

	codes['b'] = "10"
	require.True(t, codes.PrefixFree())

	codes['c'] = "10"
	require.False(t, codes.PrefixFree())
}

func TestCountConservation(t *testing.T) {
	data := []byte(strings.Repeat("conservation of counts ", 37))
	cb := Build(CountBytes(data))
	var sum int64
	for _, e := range cb.Entries {
		sum += e.Count
	}
	require.Equal(t, int64(len(data)), sum)
	require.Equal(t, int64(len(data)), cb.Total())
}

func TestEntropyBound(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		data := make([]byte, rng.Intn(3000)+2)
		for j := range data {
			data[j] = byte(rng.NormFloat64()*10 + 128)
		}
		freqs := CountBytes(data)
		if freqs.Distinct() < 2 {
			continue
		}
		s := Summarize(Build(freqs))
		require.GreaterOrEqual(t, s.AverageCodeLength+1e-9, s.Entropy)
		// Huffman codes are within one bit of the entropy
		require.Less(t, s.AverageCodeLength, s.Entropy+1)
	}
}

func TestSummaryEmpty(t *testing.T) {
	require.Equal(t, Summary{}, Summarize(Build(CountBytes(nil))))
}

func TestSummaryScenario(t *testing.T) {
	s := Summarize(Build(CountBytes([]byte("aaaabbbcc"))))
	require.Equal(t, int64(9), s.TotalSymbols)
	require.Equal(t, 3, s.DistinctSymbols)
	require.InDelta(t, 14.0/9.0, s.AverageCodeLength, 1e-12)
	require.InDelta(t, 1.5304930567574826, s.Entropy, 1e-12)
	require.InDelta(t, 72.0/14.0, s.CompressionRatio, 1e-12)
	require.InDelta(t, 100*(1-14.0/72.0), s.SavedPercent, 1e-12)
	require.InDelta(t, 2.889, s.Perplexity, 1e-3)
}

func TestSummarySingleSymbol(t *testing.T) {
	s := Summarize(Build(CountBytes([]byte("zzzz"))))
	require.Equal(t, 0.0, s.Entropy)
	require.Equal(t, 1.0, s.Perplexity)
	require.Equal(t, 1.0, s.AverageCodeLength)
	require.Equal(t, 8.0, s.CompressionRatio)
}

func TestDecodeCorruptedSingleSymbol(t *testing.T) {
	cb, stream, err := EncodeBytes(bytes.Repeat([]byte{'a'}, 8))
	require.NoError(t, err)
	require.Equal(t, []byte{0}, stream)

	for bit := 1; bit <= 8; bit++ {
		corrupted := []byte{stream[0] ^ byte(0x80>>(bit-1))}
		decoded, err := DecodeBytes(cb, corrupted)

		var derr *DecodeError
		require.ErrorAs(t, err, &derr)
		require.Equal(t, int64(bit), derr.Position)
		require.Len(t, decoded, bit-1)
	}
}

func TestDecodeDeadEnd(t *testing.T) {
	// "11" is not a code
	cb := &Codebook{Entries: []Entry{
		{Symbol: 'a', Count: 2, Code: "0"},
		{Symbol: 'b', Count: 2, Code: "10"},
	}}

	decoded, err := DecodeBytes(cb, []byte{0b0100_1100})
	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, int64(6), derr.Position)
	require.Equal(t, []byte("aba"), decoded)
}

func TestDecodeCountMismatch(t *testing.T) {
	cb, stream, err := EncodeBytes([]byte(strings.Repeat("mismatch ", 20)))
	require.NoError(t, err)

	decoded, err := DecodeBytes(cb, stream[:len(stream)/2])
	var merr *CountMismatchError
	require.ErrorAs(t, err, &merr)
	require.Equal(t, cb.Total(), merr.Expected)
	require.Equal(t, int64(len(decoded)), merr.Decoded)
	require.Less(t, merr.Decoded, merr.Expected)
}

func TestDecodeNothingExpected(t *testing.T) {
	dec := NewDecoder(bytes.NewReader([]byte{0xff, 0xff}), &Codebook{})
	_, err := dec.ReadByte()
	require.ErrorIs(t, err, io.EOF)
	require.Zero(t, dec.Position())
}

func TestDecodeReadError(t *testing.T) {
	cb := Build(CountBytes([]byte("ab")))
	failure := errors.New("disk on fire")
	dec := NewDecoder(io.MultiReader(bytes.NewReader(nil), errReader{failure}), cb)
	_, err := dec.ReadByte()
	require.ErrorIs(t, err, failure)
}

func TestEncoderMissingCode(t *testing.T) {
	codes := &CodeTable{}
	codes['a'] = "0"
	enc := NewEncoder(io.Discard, codes)
	n, err := enc.Write([]byte("aab"))
	require.ErrorIs(t, err, ErrNoCode)
	require.Equal(t, 2, n)
	require.Equal(t, int64(2), enc.Bits())
}

func TestTrieReplacesDuplicateCode(t *testing.T) {
	cb := &Codebook{Entries: []Entry{
		{Symbol: 'a', Count: 1, Code: "1"},
		{Symbol: 'b', Count: 1, Code: "1"},
	}}
	decoded, err := DecodeBytes(cb, []byte{0b1100_0000})
	require.NoError(t, err)
	require.Equal(t, []byte("bb"), decoded)
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }
