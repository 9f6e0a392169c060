package session_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"binheap/internal/pkg/binomial"
	"binheap/internal/session"
)

func TestStore_Create(t *testing.T) {
	t.Parallel()

	s := session.New(2)

	id, err := s.Create("a")
	require.NoError(t, err)
	require.Equal(t, "a", id)

	_, err = s.Create("a")
	require.ErrorIs(t, err, session.ErrHeapExists)

	id, err = s.Create("")
	require.NoError(t, err)
	require.Len(t, id, 8)

	_, err = s.Create("c")
	require.ErrorIs(t, err, session.ErrTooManyHeaps)

	require.NoError(t, s.Drop("a"))
	require.ErrorIs(t, s.Drop("a"), session.ErrHeapNotFound)

	_, err = s.Create("c")
	require.NoError(t, err)
}

func TestStore_Operations(t *testing.T) {
	t.Parallel()

	s := session.New(0)
	_, err := s.Create("h")
	require.NoError(t, err)

	for _, kv := range []struct {
		label string
		key   any
	}{{"a", 5}, {"b", 4}, {"c", 25.0}, {"d", int64(-13)}} {
		label, err := s.Insert("h", kv.key, kv.label)
		require.NoError(t, err)
		require.Equal(t, kv.label, label)
	}

	out, err := s.Render("h")
	require.NoError(t, err)
	require.Equal(t, "(k=-13, p=None, d=2)(k=4, p=-13, d=1)(k=5, p=4, d=0)(k=25, p=-13, d=0)", out)

	el, ok, err := s.Min("h")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, session.Element{Label: "d", Key: -13}, el)

	// "a" sits below "b", decreasing it moves it to the root
	require.NoError(t, s.DecreaseKey("h", "a", -20))
	el, _, err = s.Min("h")
	require.NoError(t, err)
	require.Equal(t, session.Element{Label: "a", Key: -20}, el)
	require.NoError(t, s.Check("h"))

	require.ErrorIs(t, s.DecreaseKey("h", "b", 100), binomial.ErrInvalidKeyDecrease)
	require.ErrorIs(t, s.DecreaseKey("h", "b", "x"), binomial.ErrInvalidKeyType)
	require.ErrorIs(t, s.DecreaseKey("h", "zz", 1), session.ErrLabelNotFound)

	require.NoError(t, s.Delete("h", "d"))
	require.ErrorIs(t, s.Delete("h", "d"), session.ErrLabelNotFound)
	require.NoError(t, s.Check("h"))

	n, err := s.Len("h")
	require.NoError(t, err)
	require.Equal(t, 3, n)

	var keys []float64
	for {
		el, err := s.ExtractMin("h")
		if err != nil {
			require.ErrorIs(t, err, binomial.ErrEmptyHeap)
			break
		}
		keys = append(keys, el.Key)
	}
	require.Equal(t, []float64{-20, 4, 25}, keys)

	_, ok, err = s.Min("h")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStore_Insert_Invalid(t *testing.T) {
	t.Parallel()

	s := session.New(0)
	_, err := s.Insert("missing", 1, "")
	require.ErrorIs(t, err, session.ErrHeapNotFound)

	_, err = s.Create("h")
	require.NoError(t, err)

	_, err = s.Insert("h", "hello", "")
	require.ErrorIs(t, err, binomial.ErrInvalidKeyType)

	label, err := s.Insert("h", 1, "")
	require.NoError(t, err)
	require.NotEmpty(t, label)

	_, err = s.Insert("h", 2, label)
	require.ErrorIs(t, err, session.ErrLabelExists)

	n, err := s.Len("h")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestStore_Union(t *testing.T) {
	t.Parallel()

	s := session.New(0)
	for _, id := range []string{"a", "b"} {
		_, err := s.Create(id)
		require.NoError(t, err)
	}

	for i, k := range []float64{5, 10} {
		_, err := s.Insert("a", k, string(rune('p'+i)))
		require.NoError(t, err)
	}
	for i, k := range []float64{3, 12, 18, 39, 59, 60, 150} {
		_, err := s.Insert("b", k, string(rune('a'+i)))
		require.NoError(t, err)
	}

	_, err := s.Union("a", "a")
	require.ErrorIs(t, err, session.ErrSelfUnion)

	_, err = s.Union("a", "missing")
	require.ErrorIs(t, err, session.ErrHeapNotFound)

	n, err := s.Union("a", "b")
	require.NoError(t, err)
	require.Equal(t, 9, n)
	require.NoError(t, s.Check("a"))

	_, err = s.Len("b")
	require.ErrorIs(t, err, session.ErrHeapNotFound)

	// labels of b now address elements of a
	require.NoError(t, s.DecreaseKey("a", "g", 1))
	el, _, err := s.Min("a")
	require.NoError(t, err)
	require.Equal(t, session.Element{Label: "g", Key: 1}, el)
	require.NoError(t, s.Check("a"))
}

func TestStore_Union_LabelConflict(t *testing.T) {
	t.Parallel()

	s := session.New(0)
	for _, id := range []string{"a", "b"} {
		_, err := s.Create(id)
		require.NoError(t, err)
		_, err = s.Insert(id, 1, "same")
		require.NoError(t, err)
	}

	_, err := s.Union("a", "b")
	require.ErrorIs(t, err, session.ErrLabelExists)

	n, err := s.Len("b")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestStore_List(t *testing.T) {
	t.Parallel()

	s := session.New(0)
	for _, id := range []string{"y", "x"} {
		_, err := s.Create(id)
		require.NoError(t, err)
	}

	for i := 0; i < 1200; i++ {
		_, err := s.Insert("x", i, "")
		require.NoError(t, err)
	}

	stats := s.List()
	require.Len(t, stats, 2)
	require.Equal(t, "x", stats[0].ID)
	require.Equal(t, 1200, stats[0].Len)
	require.Equal(t, "x: 1,200 elements, 1,200 operations", stats[0].String())
	require.Equal(t, "y: 0 elements, 0 operations", stats[1].String())
	require.EqualValues(t, 1200, s.Ops())
}

func TestStore_Concurrent(t *testing.T) {
	t.Parallel()

	s := session.New(0)
	_, err := s.Create("h")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_, _ = s.Insert("h", w*100+i, "")
			}
		}(w)
	}
	wg.Wait()

	n, err := s.Len("h")
	require.NoError(t, err)
	require.Equal(t, 800, n)
	require.NoError(t, s.Check("h"))

	prev, err := s.ExtractMin("h")
	require.NoError(t, err)
	for i := 1; i < 800; i++ {
		el, err := s.ExtractMin("h")
		require.NoError(t, err)
		require.LessOrEqual(t, prev.Key, el.Key)
		prev = el
	}
}
