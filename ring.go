// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package waitq

import "iter"

// circular is the fixed-capacity ring shared by Ring and RingView.
//
// When full, a push overwrites the oldest element and advances the front:
// the last Cap() pushes always win. There is no backpressure.
type circular[T any] struct {
	buf   []T
	start int // index of the front element
	n     int // 0 <= n <= len(buf)
}

func (c *circular[T]) index(i int) int {
	return (c.start + i) % len(c.buf)
}

// Len returns the number of stored elements.
func (c *circular[T]) Len() int {
	return c.n
}

// Cap returns the fixed capacity.
func (c *circular[T]) Cap() int {
	return len(c.buf)
}

// Full reports whether the next push will overwrite the oldest element.
func (c *circular[T]) Full() bool {
	return c.n == len(c.buf)
}

// PushBack appends v, overwriting the oldest element when full.
func (c *circular[T]) PushBack(v T) {
	if c.n == len(c.buf) {
		c.buf[c.start] = v
		c.start = c.index(1)
		return
	}
	c.buf[c.index(c.n)] = v
	c.n++
}

// EmplaceBack initializes the next slot in place with init, overwriting the
// oldest element when full. If init panics the overwritten element is put
// back and the ring is unchanged.
func (c *circular[T]) EmplaceBack(init func(*T)) {
	full := c.n == len(c.buf)
	idx := c.start
	if !full {
		idx = c.index(c.n)
	}
	prev := c.buf[idx]
	ok := false
	defer func() {
		if !ok {
			c.buf[idx] = prev
		}
	}()
	var zero T
	c.buf[idx] = zero
	init(&c.buf[idx])
	ok = true
	if full {
		c.start = c.index(1)
		return
	}
	c.n++
}

// PopFront removes and returns the oldest element. It panics if the ring is
// empty.
func (c *circular[T]) PopFront() T {
	if c.n == 0 {
		panic("waitq: pop from front of empty ring")
	}
	var zero T
	x := c.buf[c.start]
	c.buf[c.start] = zero
	c.start = c.index(1)
	c.n--
	return x
}

// All yields the elements oldest first.
func (c *circular[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := range c.n {
			if !yield(c.buf[c.index(i)]) {
				return
			}
		}
	}
}

// RingView is a fixed-capacity circular container over caller-owned storage.
//
// RingView never allocates: every element lives in the slice passed to
// NewRingView, which the caller must not touch while the view is in use.
// This suits embedded and real-time producers that must not allocate per
// operation.
//
// Example:
//
//	var buf [64]Sample
//	q := waitq.NewQueueOf[Sample](waitq.NewRingView(buf[:]))
type RingView[T any] struct {
	circular[T]
}

// NewRingView creates a ring over buf. The capacity is len(buf).
// Panics if buf is empty.
func NewRingView[T any](buf []T) *RingView[T] {
	if len(buf) == 0 {
		panic("waitq: ring view over empty buffer")
	}
	return &RingView[T]{circular[T]{buf: buf}}
}

// Ring is a fixed-capacity circular container that owns its storage.
//
// The storage is allocated once by NewRing; pushes and pops never allocate.
type Ring[T any] struct {
	circular[T]
}

// NewRing creates a ring holding at most capacity elements.
// Unlike lock-free rings the capacity is exact, not rounded to a power of 2.
//
// Panics if capacity < 1.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		panic("waitq: capacity must be >= 1")
	}
	return &Ring[T]{circular[T]{buf: make([]T, capacity)}}
}
