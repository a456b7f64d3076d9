package huffman

import (
	"bufio"
	"io"

	"github.com/icza/bitio"
)

// trieNode is a decode trie node addressed by index; index 0 is the root.
type trieNode struct {
	left   int32
	right  int32
	symbol byte
	leaf   bool
}

// Trie maps bit paths to symbols. It is built from (code, symbol) pairs and
// does not need to have the shape of the encoder's tree.
type Trie struct {
	nodes []trieNode
}

// NewTrie builds the decode trie of every entry in cb.
func NewTrie(cb *Codebook) *Trie {
	t := &Trie{nodes: make([]trieNode, 1, 2*len(cb.Entries)+1)}
	t.nodes[0] = trieNode{left: noChild, right: noChild}
	for _, e := range cb.Entries {
		t.Insert(e.Code, e.Symbol)
	}
	return t
}

// Insert adds code as a path to sym, creating missing nodes.
// A later insert of the same code replaces the symbol.
func (t *Trie) Insert(code string, sym byte) {
	cur := int32(0)
	for i := 0; i < len(code); i++ {
		right := code[i] == '1'
		next := t.child(cur, right)
		if next == noChild {
			t.nodes = append(t.nodes, trieNode{left: noChild, right: noChild})
			next = int32(len(t.nodes) - 1)
			if right {
				t.nodes[cur].right = next
			} else {
				t.nodes[cur].left = next
			}
		}
		cur = next
	}
	t.nodes[cur].leaf = true
	t.nodes[cur].symbol = sym
}

func (t *Trie) child(index int32, right bool) int32 {
	if right {
		return t.nodes[index].right
	}
	return t.nodes[index].left
}

// Decoder recovers symbols by walking the trie one bit at a time.
type Decoder struct {
	input    *bitio.Reader
	trie     *Trie
	expected int64 // Number of symbols the stream holds
	decoded  int64 // Number of symbols decoded so far
	position int64 // Number of bits consumed so far
}

// NewDecoder creates a decoder reading the stream described by cb from r.
func NewDecoder(r io.Reader, cb *Codebook) *Decoder {
	return &Decoder{
		input:    bitio.NewReader(r),
		trie:     NewTrie(cb),
		expected: cb.Total(),
	}
}

// ReadByte decodes the next symbol.
//
// It returns io.EOF once the expected number of symbols has been decoded,
// without consuming padding bits. A path with no trie child yields a
// *DecodeError; a stream that ends early yields a *CountMismatchError.
func (d *Decoder) ReadByte() (byte, error) {
	if d.decoded >= d.expected {
		return 0, io.EOF
	}
	cur := int32(0)
	for {
		right, err := d.input.ReadBool()
		if err != nil {
			if err == io.EOF {
				return 0, &CountMismatchError{Decoded: d.decoded, Expected: d.expected}
			}
			return 0, err
		}
		d.position++

		cur = d.trie.child(cur, right)
		if cur == noChild {
			return 0, &DecodeError{Position: d.position}
		}
		if d.trie.nodes[cur].leaf {
			d.decoded++
			return d.trie.nodes[cur].symbol, nil
		}
	}
}

// Read decodes up to len(p) symbols.
func (d *Decoder) Read(p []byte) (n int, err error) {
	for i := range p {
		if p[i], err = d.ReadByte(); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// WriteTo decodes the whole stream into w. Symbols decoded before an error
// are still written.
func (d *Decoder) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64
	for {
		b, err := d.ReadByte()
		if err == io.EOF {
			return written, bw.Flush()
		}
		if err != nil {
			if ferr := bw.Flush(); ferr != nil {
				return written, ferr
			}
			return written, err
		}
		if err := bw.WriteByte(b); err != nil {
			return written, err
		}
		written++
	}
}

// Decoded returns the number of symbols decoded so far.
func (d *Decoder) Decoded() int64 { return d.decoded }

// Expected returns the number of symbols the codebook promises.
func (d *Decoder) Expected() int64 { return d.expected }

// Position returns the number of bits consumed so far.
func (d *Decoder) Position() int64 { return d.position }
