package huffman

import "container/heap"

// noChild marks a missing child index in a node arena.
const noChild = -1

// node is a Huffman tree node. Leaves have no children.
type node struct {
	count  int64
	symbol byte
	left   int32
	right  int32
}

func (n *node) isLeaf() bool { return n.left == noChild && n.right == noChild }

// Tree is a Huffman code tree stored as an arena of nodes addressed by index.
//
// Every child has exactly one parent; the root is the last node created.
type Tree struct {
	nodes []node
	root  int32
}

// queueItem is an entry of the merge queue.
type queueItem struct {
	index int32
	count int64
	seq   int // insertion order, breaks ties between equal counts
}

// mergeQueue is a min-heap ordered by (count, seq).
type mergeQueue []queueItem

func (q mergeQueue) Len() int { return len(q) }
func (q mergeQueue) Less(i, j int) bool {
	if q[i].count != q[j].count {
		return q[i].count < q[j].count
	}
	return q[i].seq < q[j].seq
}
func (q mergeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *mergeQueue) Push(x interface{}) { *q = append(*q, x.(queueItem)) }
func (q *mergeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

// BuildTree builds the Huffman tree for freqs.
//
// Leaves are queued in ascending byte order. On equal counts the node queued
// earlier is extracted first, so the result is deterministic. The first node
// extracted in a merge becomes the left child.
//
// With a single distinct symbol the leaf itself is the root. With no symbols
// the tree is empty.
func BuildTree(freqs *Frequencies) *Tree {
	distinct := freqs.Distinct()
	t := &Tree{
		nodes: make([]node, 0, 2*distinct),
		root:  noChild,
	}
	if distinct == 0 {
		return t
	}

	q := make(mergeQueue, 0, distinct)
	for sym, count := range freqs.Counts {
		if count == 0 {
			continue
		}
		index := t.add(node{count: count, symbol: byte(sym), left: noChild, right: noChild})
		q = append(q, queueItem{index: index, count: count, seq: len(q)})
	}
	heap.Init(&q)

	seq := len(q)
	for q.Len() > 1 {
		left := heap.Pop(&q).(queueItem)
		right := heap.Pop(&q).(queueItem)

		count := left.count + right.count
		parent := t.add(node{count: count, left: left.index, right: right.index})
		heap.Push(&q, queueItem{index: parent, count: count, seq: seq})
		seq++
	}
	t.root = heap.Pop(&q).(queueItem).index
	return t
}

func (t *Tree) add(n node) int32 {
	t.nodes = append(t.nodes, n)
	return int32(len(t.nodes) - 1)
}

// Empty reports whether the tree has no leaves.
func (t *Tree) Empty() bool { return t.root == noChild }

// Count returns the weight of the root, which equals the total symbol count.
func (t *Tree) Count() int64 {
	if t.Empty() {
		return 0
	}
	return t.nodes[t.root].count
}

// Codes assigns a code to every leaf: '0' for a left edge, '1' for a right
// edge. A leaf at the root gets "0", since an empty codeword cannot be
// transmitted.
func (t *Tree) Codes() *CodeTable {
	codes := &CodeTable{}
	if t.Empty() {
		return codes
	}
	if t.nodes[t.root].isLeaf() {
		codes[t.nodes[t.root].symbol] = "0"
		return codes
	}

	type pending struct {
		index int32
		code  string
	}
	stack := []pending{{index: t.root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[p.index]
		if n.isLeaf() {
			codes[n.symbol] = p.code
			continue
		}
		// right is pushed first so the left subtree is visited first
		if n.right != noChild {
			stack = append(stack, pending{index: n.right, code: p.code + "1"})
		}
		if n.left != noChild {
			stack = append(stack, pending{index: n.left, code: p.code + "0"})
		}
	}
	return codes
}
