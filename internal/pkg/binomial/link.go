package binomial

import (
	"fmt"

	"github.com/negrel/assert"
	"github.com/samber/lo"
	"github.com/trim21/errgo"
)

// link makes child, the root of a binomial tree, the leftmost child of root,
// the root of another tree of the same degree.
func link[K Number, V any](child, root *Node[K, V]) error {
	if child == nil || root == nil {
		return ErrNilNode
	}

	if before(child, root) {
		return errgo.Wrap(ErrInvalidLinkOrder, fmt.Sprintf("link %s under %s", child, root))
	}

	assert.Equal(child.degree, root.degree)

	child.parent = root
	child.sibling = root.child
	root.child = child
	root.degree++

	return nil
}

// merge interleaves two root lists sorted by degree into one sorted list and
// returns its head. It is stable, a tie takes the root from a first.
func merge[K Number, V any](a, b *Node[K, V]) *Node[K, V] {
	var head, tail *Node[K, V]

	for a != nil || b != nil {
		var selected *Node[K, V]

		switch {
		case b == nil:
			selected, a = a, a.sibling
		case a == nil:
			selected, b = b, b.sibling
		case a.degree <= b.degree:
			selected, a = a, a.sibling
		default:
			selected, b = b, b.sibling
		}

		if head == nil {
			head = selected
		} else {
			tail.sibling = selected
		}

		tail = selected
	}

	return head
}

// union merges two root lists and links trees of equal degree until no two
// roots share a degree, like carries in binary addition.
func union[K Number, V any](a, b *Node[K, V]) *Node[K, V] {
	head := merge(a, b)
	if head == nil {
		return nil
	}

	var prev *Node[K, V]
	current := head

	for next := current.sibling; next != nil; next = current.sibling {
		// with three roots of one degree in a row, the last two are linked
		// first so the carry keeps the list sorted
		if current.degree != next.degree ||
			(next.sibling != nil && next.sibling.degree == current.degree) {
			prev, current = current, next
			continue
		}

		if !before(next, current) {
			current.sibling = next.sibling
			lo.Must0(link(next, current))
			continue
		}

		if prev == nil {
			head = next
		} else {
			prev.sibling = next
		}

		lo.Must0(link(current, next))
		current = next
	}

	assert.Equal(sortedByDegree(head), true)

	return head
}

func sortedByDegree[K Number, V any](head *Node[K, V]) bool {
	for n := head; n != nil && n.sibling != nil; n = n.sibling {
		if n.degree >= n.sibling.degree {
			return false
		}
	}

	return true
}

// Union combines h and other into a new heap without copying elements.
//
// Both operands are consumed: they are left empty and their former nodes
// belong to the returned heap, which keeps h's OnMove callback.
func (h *Heap[K, V]) Union(other *Heap[K, V]) *Heap[K, V] {
	u := &Heap[K, V]{onMove: h.onMove, size: h.size}

	var otherHead *Node[K, V]
	if other != nil && other != h {
		otherHead = other.head
		u.size += other.size
		other.head, other.size = nil, 0
	}

	u.head = union(h.head, otherHead)
	h.head, h.size = nil, 0

	return u
}
