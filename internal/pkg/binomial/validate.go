package binomial

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/trim21/errgo"
)

// Validate checks the structural invariants of h:
// heap order, binomial tree shape, strictly increasing root degrees, parent
// links, and that the root degrees are exactly the set bits of Len.
func (h *Heap[K, V]) Validate() error {
	degrees := roaring.New()
	count := 0

	var prev *Node[K, V]
	for root := h.head; root != nil; prev, root = root, root.sibling {
		if root.parent != nil {
			return errgo.Wrap(ErrCorrupted, fmt.Sprintf("root %s has a parent", root))
		}

		if prev != nil && prev.degree >= root.degree {
			return errgo.Wrap(ErrCorrupted, fmt.Sprintf("root %s follows %s", root, prev))
		}

		if count >= h.size {
			return errgo.Wrap(ErrCorrupted, "more nodes than heap size")
		}

		degrees.Add(uint32(root.degree))

		n, err := validateTree(root, h.size-count)
		if err != nil {
			return err
		}

		count += n
	}

	if count != h.size {
		return errgo.Wrap(ErrCorrupted, fmt.Sprintf("found %d nodes, heap size is %d", count, h.size))
	}

	bits := roaring.New()
	for i := 0; h.size>>i != 0; i++ {
		if h.size>>i&1 == 1 {
			bits.Add(uint32(i))
		}
	}

	if !degrees.Equals(bits) {
		return errgo.Wrap(ErrCorrupted,
			fmt.Sprintf("root degrees %v do not match size %b", degrees.ToArray(), h.size))
	}

	return nil
}

// validateTree returns the number of nodes in the tree rooted at root.
// It gives up after limit nodes, which catches cycles.
func validateTree[K Number, V any](root *Node[K, V], limit int) (int, error) {
	count := 1
	stack := []*Node[K, V]{root}

	for len(stack) != 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		want := n.degree - 1
		for c := n.child; c != nil; c = c.sibling {
			if want < 0 {
				return 0, errgo.Wrap(ErrCorrupted, fmt.Sprintf("%s has more children than its degree", n))
			}

			if c.parent != n {
				return 0, errgo.Wrap(ErrCorrupted, fmt.Sprintf("%s is linked under %s", c, n))
			}

			if c.degree != want {
				return 0, errgo.Wrap(ErrCorrupted, fmt.Sprintf("%s should have degree %d", c, want))
			}

			if before(c, n) {
				return 0, errgo.Wrap(ErrCorrupted, fmt.Sprintf("%s violates heap order", c))
			}

			count++
			if count > limit {
				return 0, errgo.Wrap(ErrCorrupted, "more nodes than heap size")
			}

			stack = append(stack, c)
			want--
		}

		if want != -1 {
			return 0, errgo.Wrap(ErrCorrupted, fmt.Sprintf("%s has fewer children than its degree", n))
		}
	}

	return count, nil
}
