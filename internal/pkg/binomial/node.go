package binomial

import (
	"fmt"
	"strconv"

	"github.com/valyala/bytebufferpool"
)

// Node is one element of a binomial tree.
//
// Value is an opaque payload. It moves together with the key when
// DecreaseKey or Delete exchange keys between a node and its parent.
type Node[K Number, V any] struct {
	Value V

	parent *Node[K, V]
	// leftmost child, children are linked by sibling in decreasing degree
	child   *Node[K, V]
	sibling *Node[K, V]

	key    K
	degree int

	// set by Delete, orders before any key
	minusInf bool
}

// NewNode returns a detached root node of degree 0.
func NewNode[K Number, V any](key K, value V) *Node[K, V] {
	return &Node[K, V]{key: key, Value: value}
}

// NodeOf is NewNode for dynamically typed keys, see KeyOf.
func NodeOf[K Number, V any](key any, value V) (*Node[K, V], error) {
	k, err := KeyOf[K](key)
	if err != nil {
		return nil, err
	}

	return NewNode(k, value), nil
}

func (n *Node[K, V]) Key() K {
	return n.key
}

func (n *Node[K, V]) Degree() int {
	return n.degree
}

// Parent is nil for a root.
func (n *Node[K, V]) Parent() *Node[K, V] {
	return n.parent
}

func (n *Node[K, V]) Child() *Node[K, V] {
	return n.child
}

func (n *Node[K, V]) Sibling() *Node[K, V] {
	return n.sibling
}

func (n *Node[K, V]) reset() {
	n.parent = nil
	n.child = nil
	n.sibling = nil
	n.degree = 0
}

// String renders the node as `(k=<key>, p=<parent key or None>, d=<degree>)`.
func (n *Node[K, V]) String() string {
	b := bytebufferpool.Get()
	defer bytebufferpool.Put(b)

	n.render(b)

	return b.String()
}

func (n *Node[K, V]) render(b *bytebufferpool.ByteBuffer) {
	_, _ = b.WriteString("(k=")
	n.writeKey(b)
	_, _ = b.WriteString(", p=")
	if n.parent == nil {
		_, _ = b.WriteString("None")
	} else {
		n.parent.writeKey(b)
	}
	_, _ = b.WriteString(", d=")
	b.B = strconv.AppendInt(b.B, int64(n.degree), 10)
	_ = b.WriteByte(')')
}

func (n *Node[K, V]) writeKey(b *bytebufferpool.ByteBuffer) {
	if n.minusInf {
		_, _ = b.WriteString("-Inf")
		return
	}

	_, _ = fmt.Fprint(b, n.key)
}
