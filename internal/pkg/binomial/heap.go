// Package binomial provides a mergeable min-heap built from binomial trees.
//
// A heap of n elements is a list of binomial trees whose degrees match the set
// bits of n. Insert, ExtractMin, DecreaseKey and Delete run in O(log n), and
// two heaps are combined with Union by relinking their trees, never copying
// elements.
//
// A Heap is not safe for concurrent use.
package binomial

import (
	"github.com/valyala/bytebufferpool"
)

// Heap is a binomial min-heap. The zero value is an empty heap.
type Heap[K Number, V any] struct {
	head   *Node[K, V]
	onMove func(n *Node[K, V])
	size   int
}

func New[K Number, V any]() *Heap[K, V] {
	return &Heap[K, V]{}
}

// Head returns the first root of the root list, nil if the heap is empty.
func (h *Heap[K, V]) Head() *Node[K, V] {
	return h.head
}

// Len returns the number of elements in the heap.
func (h *Heap[K, V]) Len() int {
	return h.size
}

func (h *Heap[K, V]) Empty() bool {
	return h.head == nil
}

// OnMove registers fn to be called for every node whose key and Value
// changed during DecreaseKey or Delete. Callers that hold nodes by their
// Value use it to keep that mapping current.
func (h *Heap[K, V]) OnMove(fn func(n *Node[K, V])) {
	h.onMove = fn
}

func (h *Heap[K, V]) moved(n *Node[K, V]) {
	if h.onMove != nil {
		h.onMove(n)
	}
}

// Min returns the root with the minimum key, or nil if the heap is empty.
// The leftmost root wins ties.
func (h *Heap[K, V]) Min() *Node[K, V] {
	if h.head == nil {
		return nil
	}

	m := h.head
	for n := m.sibling; n != nil; n = n.sibling {
		if before(n, m) {
			m = n
		}
	}

	return m
}

// Walk visits every node in canonical order: each root, then its child
// subtree, then its next sibling. It stops early when fn returns false.
func (h *Heap[K, V]) Walk(fn func(n *Node[K, V]) bool) {
	if h.head == nil {
		return
	}

	stack := []*Node[K, V]{h.head}
	for len(stack) != 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(n) {
			return
		}

		// child is pushed last so its subtree is visited before the sibling
		if n.sibling != nil {
			stack = append(stack, n.sibling)
		}
		if n.child != nil {
			stack = append(stack, n.child)
		}
	}
}

// String returns the canonical form of the heap, every node rendered in Walk
// order with no separator. An empty heap renders as "".
func (h *Heap[K, V]) String() string {
	b := bytebufferpool.Get()
	defer bytebufferpool.Put(b)

	h.Walk(func(n *Node[K, V]) bool {
		n.render(b)
		return true
	})

	return b.String()
}
