package binomial

import (
	"fmt"

	"github.com/trim21/errgo"
	"golang.org/x/exp/constraints"

	"binheap/internal/pkg/as"
)

// Number is the key domain of a heap, any integer or float type.
type Number interface {
	constraints.Integer | constraints.Float
}

// KeyOf converts a dynamically typed value into a key of type K.
// It fails with ErrInvalidKeyType when v is not a number, is NaN, or
// does not fit in K.
func KeyOf[K Number](v any) (K, error) {
	k, err := as.Number[K](v)
	if err != nil {
		return k, errgo.Wrap(ErrInvalidKeyType, fmt.Sprintf("%v: %s", v, err))
	}

	return k, nil
}

func isNaN[K Number](k K) bool {
	return k != k //nolint:gocritic
}

// before reports whether a orders strictly before b.
// A node tagged as minus infinity orders before every untagged node.
func before[K Number, V any](a, b *Node[K, V]) bool {
	if a.minusInf || b.minusInf {
		return a.minusInf && !b.minusInf
	}

	return a.key < b.key
}
