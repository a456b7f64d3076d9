package huffman

import (
	"bytes"
)

// Build derives the codebook for freqs.
func Build(freqs *Frequencies) *Codebook {
	tree := BuildTree(freqs)
	return NewCodebook(freqs, tree.Codes())
}

// EncodeBytes builds a code for data and encodes data with it.
func EncodeBytes(data []byte) (*Codebook, []byte, error) {
	cb := Build(CountBytes(data))

	var buf bytes.Buffer
	enc := NewEncoder(&buf, cb.Codes())
	if _, err := enc.Write(data); err != nil {
		return nil, nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, nil, err
	}
	return cb, buf.Bytes(), nil
}

// DecodeBytes decodes stream using cb.
// On error the symbols decoded so far are returned alongside it.
func DecodeBytes(cb *Codebook, stream []byte) ([]byte, error) {
	var buf bytes.Buffer
	dec := NewDecoder(bytes.NewReader(stream), cb)
	_, err := dec.WriteTo(&buf)
	return buf.Bytes(), err
}
