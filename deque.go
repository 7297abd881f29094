// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package waitq

import "iter"

// Deque is an unbounded FIFO container backed by a growable ring slice.
//
// PopFront is O(1) and PushBack is amortised O(1): when the ring is full its
// capacity doubles (or becomes 1 if it was empty). Popped slots are zeroed so
// the garbage collector can reclaim anything they referenced.
//
// The zero value is an empty Deque ready to use. Deque is not safe for
// concurrent use on its own; a Queue serializes access to it.
type Deque[T any] struct {
	ring  []T // len(ring) MUST == cap(ring)
	start int // 0 <= start < len(ring), or 0 when ring is empty
	n     int // 0 <= n <= len(ring)
}

// NewDeque creates an empty Deque with room for capacity elements before the
// first grow.
func NewDeque[T any](capacity int) *Deque[T] {
	if capacity < 0 {
		panic("waitq: capacity must be >= 0")
	}
	return &Deque[T]{ring: make([]T, capacity)}
}

// DequeOf creates a Deque holding values in order, front first.
func DequeOf[T any](values ...T) *Deque[T] {
	d := NewDeque[T](len(values))
	n := copy(d.ring, values)
	d.n = n
	return d
}

// Len returns the number of elements in the deque.
func (d *Deque[T]) Len() int {
	return d.n
}

func (d *Deque[T]) cap() int {
	return len(d.ring)
}

func (d *Deque[T]) index(i int) int {
	return (d.start + i) % d.cap()
}

// slot returns the ring index at which the next element goes, growing the
// ring first if it is full.
func (d *Deque[T]) slot() int {
	if d.n == d.cap() {
		grow := 2 * d.cap()
		if grow == 0 {
			grow = 1
		}
		d.Grow(grow)
	}
	return d.index(d.n)
}

// PushBack appends v to the back of the deque.
func (d *Deque[T]) PushBack(v T) {
	d.ring[d.slot()] = v
	d.n++
}

// EmplaceBack appends a zero element and initializes it in place with init.
// If init panics the slot is cleared again and Len is unchanged; a grow that
// already happened is kept.
func (d *Deque[T]) EmplaceBack(init func(*T)) {
	idx := d.slot()
	ok := false
	defer func() {
		if !ok {
			var zero T
			d.ring[idx] = zero
		}
	}()
	init(&d.ring[idx])
	ok = true
	d.n++
}

// PopFront removes and returns the first element. It panics if the deque is
// empty.
func (d *Deque[T]) PopFront() T {
	if d.n == 0 {
		panic("waitq: pop from front of empty deque")
	}
	var zero T
	x := d.ring[d.start]
	d.ring[d.start] = zero
	d.start = d.index(1)
	d.n--
	return x
}

// Front returns the first element without removing it.
func (d *Deque[T]) Front() (T, bool) {
	if d.n == 0 {
		var zero T
		return zero, false
	}
	return d.ring[d.start], true
}

// All yields the elements front to back.
func (d *Deque[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := range d.n {
			if !yield(d.ring[d.index(i)]) {
				return
			}
		}
	}
}

// Grow increases the deque's capacity to n, if necessary. It is O(Len()).
func (d *Deque[T]) Grow(n int) {
	if n <= d.cap() {
		return
	}
	b := make([]T, n)
	if d.n > 0 {
		// The live elements may wrap; copy them out in order.
		head := min(d.n, d.cap()-d.start)
		copy(b, d.ring[d.start:d.start+head])
		copy(b[head:], d.ring[:d.n-head])
	}
	d.ring = b
	d.start = 0
}
