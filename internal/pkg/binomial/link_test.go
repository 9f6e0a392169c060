package binomial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type node = Node[int, struct{}]

func n(key int) *node {
	return NewNode(key, struct{}{})
}

// adopt links c under p by hand, without any order or degree check.
func adopt(p, c *node) {
	c.parent = p
	c.sibling = p.child
	p.child = c
	p.degree++
}

// fixtures returns the heaps 5, 10(20) and 3, 12(18), 39(60(150), 59).
func fixtures() (*Heap[int, struct{}], *Heap[int, struct{}]) {
	a, b, c := n(5), n(10), n(20)
	a.sibling = b
	adopt(b, c)

	d, e, f := n(3), n(12), n(18)
	g, h, i, j := n(39), n(59), n(60), n(150)
	d.sibling = e
	adopt(e, f)
	e.sibling = g
	adopt(g, h)
	adopt(g, i)
	adopt(i, j)

	return &Heap[int, struct{}]{head: a, size: 3}, &Heap[int, struct{}]{head: d, size: 7}
}

func TestMin(t *testing.T) {
	h := &Heap[int, struct{}]{}
	require.Nil(t, h.Min())

	first := n(150)
	h.head = first
	require.Same(t, first, h.Min())

	second := n(97)
	first.sibling = second
	require.Same(t, second, h.Min())

	third := n(500)
	second.sibling = third
	require.Same(t, second, h.Min())

	fourth := n(-1)
	third.sibling = fourth
	require.Same(t, fourth, h.Min())
	require.Equal(t, -1, h.Min().Key())

	tie := n(-1)
	fourth.sibling = tie
	require.Same(t, fourth, h.Min())
}

func TestLink(t *testing.T) {
	root := n(2)
	adopt(root, n(5))

	child := n(4)
	adopt(child, n(6))

	root.sibling = child

	require.NoError(t, link(child, root))
	require.Equal(t, 2, root.degree)
	require.Same(t, child, root.child)
	require.Same(t, root, child.parent)
	require.Equal(t, 5, root.child.sibling.key)
	require.Nil(t, root.child.sibling.sibling)
	require.Equal(t, 6, root.child.child.key)

	root.sibling = nil
	h := &Heap[int, struct{}]{head: root, size: 4}
	require.Equal(t, "(k=2, p=None, d=2)(k=4, p=2, d=1)(k=6, p=4, d=0)(k=5, p=2, d=0)", h.String())
	require.NoError(t, h.Validate())
}

func TestLink_Order(t *testing.T) {
	root, child := n(7), n(3)

	require.ErrorIs(t, link(child, root), ErrInvalidLinkOrder)
	require.Nil(t, child.parent)
	require.Nil(t, root.child)
	require.Zero(t, root.degree)

	require.NoError(t, link(n(7), n(7)))
}

func TestLink_Nil(t *testing.T) {
	require.ErrorIs(t, link(nil, n(1)), ErrNilNode)
	require.ErrorIs(t, link(n(1), nil), ErrNilNode)
}

func TestMerge(t *testing.T) {
	a, b := fixtures()
	require.Equal(t, "(k=5, p=None, d=0)(k=10, p=None, d=1)(k=20, p=10, d=0)", a.String())
	require.Equal(t,
		"(k=3, p=None, d=0)"+
			"(k=12, p=None, d=1)(k=18, p=12, d=0)"+
			"(k=39, p=None, d=2)(k=60, p=39, d=1)(k=150, p=60, d=0)(k=59, p=39, d=0)",
		b.String())

	h := &Heap[int, struct{}]{head: merge(a.head, b.head)}
	require.Equal(t,
		"(k=5, p=None, d=0)"+
			"(k=3, p=None, d=0)"+
			"(k=10, p=None, d=1)(k=20, p=10, d=0)"+
			"(k=12, p=None, d=1)(k=18, p=12, d=0)"+
			"(k=39, p=None, d=2)(k=60, p=39, d=1)(k=150, p=60, d=0)(k=59, p=39, d=0)",
		h.String())
}

func TestMerge_Empty(t *testing.T) {
	require.Nil(t, merge[int, struct{}](nil, nil))

	a := n(1)
	require.Same(t, a, merge(nil, a))
	require.Same(t, a, merge(a, nil))
}

func TestUnion(t *testing.T) {
	a, b := fixtures()

	u := a.Union(b)
	require.Equal(t,
		"(k=3, p=None, d=1)(k=5, p=3, d=0)"+
			"(k=10, p=None, d=3)(k=39, p=10, d=2)(k=60, p=39, d=1)(k=150, p=60, d=0)"+
			"(k=59, p=39, d=0)(k=12, p=10, d=1)(k=18, p=12, d=0)(k=20, p=10, d=0)",
		u.String())
	require.Equal(t, 10, u.Len())
	require.NoError(t, u.Validate())

	require.True(t, a.Empty())
	require.True(t, b.Empty())
	require.Zero(t, a.Len())
	require.Zero(t, b.Len())
}

func TestUnion_TieKeepsCurrentAsParent(t *testing.T) {
	first, second := n(1), n(1)

	head := union(first, second)
	require.Same(t, first, head)
	require.Same(t, first, second.parent)
}

func TestUnion_ThreeOfOneDegree(t *testing.T) {
	// 1, 2(3) merged with 4, 5(6): linking 1 and 4 carries a third
	// degree 1 tree in front of 2 and 5
	a := n(1)
	b := n(2)
	adopt(b, n(3))
	a.sibling = b

	c := n(4)
	d := n(5)
	adopt(d, n(6))
	c.sibling = d

	h := &Heap[int, struct{}]{head: union(a, c), size: 6}
	require.NoError(t, h.Validate())
	require.Equal(t,
		"(k=1, p=None, d=1)(k=4, p=1, d=0)"+
			"(k=2, p=None, d=2)(k=5, p=2, d=1)(k=6, p=5, d=0)(k=3, p=2, d=0)",
		h.String())
}

func TestValidate_Corrupted(t *testing.T) {
	a, _ := fixtures()
	require.NoError(t, a.Validate())
	a.size = 4
	require.ErrorIs(t, a.Validate(), ErrCorrupted)

	h := &Heap[int, struct{}]{}
	root := n(5)
	adopt(root, n(1))
	h.head, h.size = root, 2
	require.ErrorIs(t, h.Validate(), ErrCorrupted)

	h.size = 3
	root.child.key = 7
	require.ErrorIs(t, h.Validate(), ErrCorrupted)
}
