package optics

import (
	"errors"
	"iter"
)

// ErrStaleHandle is returned when a handle refers to a removed entry.
var ErrStaleHandle = errors.New("optics: stale or invalid handle")

// handle packs a slot index and its generation. The zero handle is never
// issued.
type handle uint64

func makeHandle(index, gen uint32) handle { return handle(uint64(gen)<<32 | uint64(index)) }

func (h handle) index() uint32 { return uint32(h) }
func (h handle) gen() uint32   { return uint32(h >> 32) }

type slot[T any] struct {
	gen  uint32
	live bool
	val  T
}

// arena owns values addressed by generation-checked handles. Removing an
// entry bumps its slot generation so old handles stop resolving.
type arena[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

func (a *arena[T]) insert(v T) handle {
	var i uint32
	if n := len(a.free); n > 0 {
		i = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		i = uint32(len(a.slots)) //nolint:gosec // arena size fits uint32
		a.slots = append(a.slots, slot[T]{gen: 0})
	}
	s := &a.slots[i]
	s.gen++
	s.live = true
	s.val = v
	a.live++
	return makeHandle(i, s.gen)
}

func (a *arena[T]) get(h handle) (*T, error) {
	i := h.index()
	if int(i) >= len(a.slots) {
		return nil, ErrStaleHandle
	}
	s := &a.slots[i]
	if !s.live || s.gen != h.gen() {
		return nil, ErrStaleHandle
	}
	return &s.val, nil
}

func (a *arena[T]) remove(h handle) error {
	if _, err := a.get(h); err != nil {
		return err
	}
	s := &a.slots[h.index()]
	var zero T
	s.val = zero
	s.live = false
	a.free = append(a.free, h.index())
	a.live--
	return nil
}

// all yields live entries in slot order.
func (a *arena[T]) all() iter.Seq2[handle, *T] {
	return func(yield func(handle, *T) bool) {
		for i := range a.slots {
			s := &a.slots[i]
			if !s.live {
				continue
			}
			if !yield(makeHandle(uint32(i), s.gen), &s.val) { //nolint:gosec // arena size fits uint32
				return
			}
		}
	}
}
