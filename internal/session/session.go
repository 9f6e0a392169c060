// Package session keeps named heaps for the script harness and the web API.
//
// Heaps hold float64 keys; each element carries a label that addresses it in
// DecreaseKey and Delete. Every heap has its own lock, held for the whole of
// each operation.
package session

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dchest/uniuri"
	"github.com/dustin/go-humanize"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/trim21/errgo"
	"go.uber.org/atomic"

	"binheap/internal/pkg/binomial"
)

var ErrHeapNotFound = errors.New("heap not found")
var ErrHeapExists = errors.New("heap already exists")
var ErrLabelNotFound = errors.New("label not found")
var ErrLabelExists = errors.New("label already exists")
var ErrSelfUnion = errors.New("can't union a heap with itself")
var ErrTooManyHeaps = errors.New("too many heaps")

const idLength = 8

type node = binomial.Node[float64, string]

// Element is a key and the label it was inserted with.
type Element struct {
	Label string  `json:"label"`
	Key   float64 `json:"key"`
}

type entry struct {
	created time.Time
	heap    *binomial.Heap[float64, string]
	labels  map[string]*node
	log     zerolog.Logger
	id      string
	ops     atomic.Uint64
	m       sync.Mutex
	// set once the heap is dropped or consumed by a union
	gone bool
}

func newEntry(id string, parent zerolog.Logger) *entry {
	e := &entry{
		id:      id,
		created: time.Now(),
		heap:    binomial.New[float64, string](),
		labels:  make(map[string]*node),
		log:     parent.With().Str("heap", id).Logger(),
	}

	e.heap.OnMove(e.track)

	return e
}

func (e *entry) track(n *node) {
	e.labels[n.Value] = n
}

type Store struct {
	heaps    *xsync.MapOf[string, *entry]
	log      zerolog.Logger
	ops      atomic.Uint64
	maxHeaps int
}

// New returns an empty store. maxHeaps <= 0 means no limit.
func New(maxHeaps int) *Store {
	return &Store{
		heaps:    xsync.NewMapOf[string, *entry](),
		maxHeaps: maxHeaps,
		log:      log.With().Str("component", "session").Logger(),
	}
}

// with runs fn on heap id while holding its lock.
func (s *Store) with(id string, fn func(e *entry) error) error {
	e, ok := s.heaps.Load(id)
	if !ok {
		return errgo.Wrap(ErrHeapNotFound, id)
	}

	e.m.Lock()
	defer e.m.Unlock()

	if e.gone {
		return errgo.Wrap(ErrHeapNotFound, id)
	}

	e.ops.Inc()
	s.ops.Inc()

	return fn(e)
}

// Create adds an empty heap and returns its id, generated when id is empty.
func (s *Store) Create(id string) (string, error) {
	if s.maxHeaps > 0 && s.heaps.Size() >= s.maxHeaps {
		return "", errgo.Wrap(ErrTooManyHeaps, fmt.Sprintf("limit is %d", s.maxHeaps))
	}

	if id == "" {
		for {
			id = uniuri.NewLen(idLength)
			if _, ok := s.heaps.Load(id); !ok {
				break
			}
		}
	}

	if _, loaded := s.heaps.LoadOrStore(id, newEntry(id, s.log)); loaded {
		return "", errgo.Wrap(ErrHeapExists, id)
	}

	s.log.Debug().Str("heap", id).Msg("create heap")

	return id, nil
}

func (s *Store) Drop(id string) error {
	return s.with(id, func(e *entry) error {
		e.gone = true
		s.heaps.Delete(id)
		e.log.Debug().Msgf("drop heap with %d elements", e.heap.Len())
		return nil
	})
}

// Insert adds key under label and returns the label, generated when empty.
func (s *Store) Insert(id string, key any, label string) (string, error) {
	err := s.with(id, func(e *entry) error {
		if label == "" {
			for {
				label = uniuri.NewLen(idLength)
				if _, ok := e.labels[label]; !ok {
					break
				}
			}
		} else if _, ok := e.labels[label]; ok {
			return errgo.Wrap(ErrLabelExists, label)
		}

		n, err := binomial.NodeOf[float64](key, label)
		if err != nil {
			return err
		}

		if err := e.heap.Insert(n); err != nil {
			return err
		}

		e.labels[label] = n
		e.log.Trace().Msgf("insert %s with key %v", label, n.Key())

		return nil
	})

	return label, err
}

// Min returns the minimum element, ok is false when the heap is empty.
func (s *Store) Min(id string) (el Element, ok bool, err error) {
	err = s.with(id, func(e *entry) error {
		if n := e.heap.Min(); n != nil {
			el, ok = Element{Label: n.Value, Key: n.Key()}, true
		}
		return nil
	})

	return
}

func (s *Store) ExtractMin(id string) (Element, error) {
	var el Element
	err := s.with(id, func(e *entry) error {
		n, err := e.heap.ExtractMin()
		if err != nil {
			return errgo.Wrap(err, id)
		}

		delete(e.labels, n.Value)
		el = Element{Label: n.Value, Key: n.Key()}
		e.log.Trace().Msgf("extract %s with key %v", n.Value, n.Key())

		return nil
	})

	return el, err
}

func (s *Store) DecreaseKey(id, label string, key any) error {
	return s.with(id, func(e *entry) error {
		n, ok := e.labels[label]
		if !ok {
			return errgo.Wrap(ErrLabelNotFound, label)
		}

		k, err := binomial.KeyOf[float64](key)
		if err != nil {
			return err
		}

		return e.heap.DecreaseKey(n, k)
	})
}

func (s *Store) Delete(id, label string) error {
	return s.with(id, func(e *entry) error {
		n, ok := e.labels[label]
		if !ok {
			return errgo.Wrap(ErrLabelNotFound, label)
		}

		if err := e.heap.Delete(n); err != nil {
			return err
		}

		delete(e.labels, label)

		return nil
	})
}

// Union moves every element of heap src into heap dst and removes src.
// It returns the new size of dst.
func (s *Store) Union(dst, src string) (int, error) {
	if dst == src {
		return 0, errgo.Wrap(ErrSelfUnion, dst)
	}

	d, ok := s.heaps.Load(dst)
	if !ok {
		return 0, errgo.Wrap(ErrHeapNotFound, dst)
	}

	o, ok := s.heaps.Load(src)
	if !ok {
		return 0, errgo.Wrap(ErrHeapNotFound, src)
	}

	// fixed lock order, two concurrent unions of the same pair can't deadlock
	first, second := d, o
	if src < dst {
		first, second = o, d
	}

	first.m.Lock()
	defer first.m.Unlock()
	second.m.Lock()
	defer second.m.Unlock()

	if d.gone {
		return 0, errgo.Wrap(ErrHeapNotFound, dst)
	}

	if o.gone {
		return 0, errgo.Wrap(ErrHeapNotFound, src)
	}

	for label := range o.labels {
		if _, ok := d.labels[label]; ok {
			return 0, errgo.Wrap(ErrLabelExists, fmt.Sprintf("%s is in both %s and %s", label, dst, src))
		}
	}

	d.heap = d.heap.Union(o.heap)
	for label, n := range o.labels {
		d.labels[label] = n
	}

	o.gone = true
	o.labels = nil
	s.heaps.Delete(src)

	d.ops.Inc()
	s.ops.Inc()
	d.log.Debug().Msgf("absorb heap %s, %d elements now", src, d.heap.Len())

	return d.heap.Len(), nil
}

// Render returns the canonical form of heap id.
func (s *Store) Render(id string) (string, error) {
	var out string
	err := s.with(id, func(e *entry) error {
		out = e.heap.String()
		return nil
	})

	return out, err
}

func (s *Store) Len(id string) (int, error) {
	var n int
	err := s.with(id, func(e *entry) error {
		n = e.heap.Len()
		return nil
	})

	return n, err
}

// Check validates the structure of heap id.
func (s *Store) Check(id string) error {
	return s.with(id, func(e *entry) error {
		if err := e.heap.Validate(); err != nil {
			return err
		}

		if len(e.labels) != e.heap.Len() {
			return errgo.Wrap(binomial.ErrCorrupted,
				fmt.Sprintf("%d labels for %d elements", len(e.labels), e.heap.Len()))
		}

		for label, n := range e.labels {
			if n.Value != label {
				return errgo.Wrap(binomial.ErrCorrupted, fmt.Sprintf("label %s points to %s", label, n.Value))
			}
		}

		return nil
	})
}

// Stat describes one heap.
type Stat struct {
	Created time.Time `json:"created"`
	ID      string    `json:"id"`
	Len     int       `json:"len"`
	Ops     uint64    `json:"ops"`
}

func (s Stat) String() string {
	return fmt.Sprintf("%s: %s elements, %s operations", s.ID, humanize.Comma(int64(s.Len)), humanize.Comma(int64(s.Ops)))
}

// List returns a snapshot of every heap, sorted by id.
func (s *Store) List() []Stat {
	stats := make([]Stat, 0, s.heaps.Size())

	s.heaps.Range(func(id string, e *entry) bool {
		e.m.Lock()
		if !e.gone {
			stats = append(stats, Stat{ID: id, Len: e.heap.Len(), Ops: e.ops.Load(), Created: e.created})
		}
		e.m.Unlock()

		return true
	})

	slices.SortFunc(stats, func(a, b Stat) int { return strings.Compare(a.ID, b.ID) })

	return stats
}

// Ops returns the number of operations served by all heaps.
func (s *Store) Ops() uint64 {
	return s.ops.Load()
}
