package binomial

import (
	"fmt"

	"github.com/trim21/errgo"
)

// Insert adds node to the heap as a fresh root of degree 0.
// A node previously extracted from a heap may be inserted again.
func (h *Heap[K, V]) Insert(node *Node[K, V]) error {
	if node == nil {
		return ErrNilNode
	}

	if isNaN(node.key) {
		return errgo.Wrap(ErrInvalidKeyType, "NaN")
	}

	node.reset()
	node.minusInf = false

	h.head = union(h.head, node)
	h.size++

	return nil
}

// Push inserts a new node holding key and value, and returns it.
func (h *Heap[K, V]) Push(key K, value V) (*Node[K, V], error) {
	n := NewNode(key, value)
	if err := h.Insert(n); err != nil {
		return nil, err
	}

	return n, nil
}

// ExtractMin removes the node with the minimum key and returns it detached.
func (h *Heap[K, V]) ExtractMin() (*Node[K, V], error) {
	if h.head == nil {
		return nil, ErrEmptyHeap
	}

	var prev, minPrev *Node[K, V]
	m := h.head

	for n := h.head; n != nil; prev, n = n, n.sibling {
		if before(n, m) {
			m, minPrev = n, prev
		}
	}

	if minPrev == nil {
		h.head = m.sibling
	} else {
		minPrev.sibling = m.sibling
	}

	// children are in decreasing degree order, prepending each one
	// yields a root list in increasing order
	var children *Node[K, V]
	for c := m.child; c != nil; {
		next := c.sibling
		c.parent = nil
		c.sibling = children
		children = c
		c = next
	}

	h.head = union(h.head, children)
	h.size--

	m.reset()

	return m, nil
}

// DecreaseKey lowers the key of node, which must belong to h.
//
// The heap order is restored by exchanging keys and values with ancestors,
// not by relinking nodes, so after the call node may hold another element.
// Use OnMove to follow elements.
func (h *Heap[K, V]) DecreaseKey(node *Node[K, V], key K) error {
	if node == nil {
		return ErrNilNode
	}

	if isNaN(key) {
		return errgo.Wrap(ErrInvalidKeyType, "NaN")
	}

	if node.minusInf || key > node.key {
		return errgo.Wrap(ErrInvalidKeyDecrease, fmt.Sprintf("%v > %s", key, node))
	}

	node.key = key
	h.siftUp(node)

	return nil
}

// Delete removes the element held by node, which must belong to h.
func (h *Heap[K, V]) Delete(node *Node[K, V]) error {
	if node == nil {
		return ErrNilNode
	}

	if h.head == nil {
		return ErrEmptyHeap
	}

	node.minusInf = true
	h.siftUp(node)

	_, err := h.ExtractMin()

	return err
}

func (h *Heap[K, V]) siftUp(n *Node[K, V]) {
	for p := n.parent; p != nil && before(n, p); n, p = p, p.parent {
		n.key, p.key = p.key, n.key
		n.minusInf, p.minusInf = p.minusInf, n.minusInf
		n.Value, p.Value = p.Value, n.Value

		h.moved(n)
	}

	h.moved(n)
}
