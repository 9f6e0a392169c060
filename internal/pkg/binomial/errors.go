package binomial

import "errors"

var ErrInvalidKeyType = errors.New("key must be an integer or float")
var ErrInvalidLinkOrder = errors.New("child key must not be smaller than parent key")
var ErrEmptyHeap = errors.New("heap is empty")
var ErrInvalidKeyDecrease = errors.New("new key must be less than or equal to the old key")
var ErrNilNode = errors.New("node is nil")

// ErrCorrupted is returned by Heap.Validate when a structural invariant does not hold.
var ErrCorrupted = errors.New("heap structure is corrupted")
