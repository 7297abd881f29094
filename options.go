// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package waitq

// Options configures queue creation and container selection.
type Options struct {
	// Capacity: pre-allocation hint for Deque, exact bound for Ring
	capacity int

	// Fixed capacity, oldest element overwritten when full
	overwrite bool
}

// Builder creates queues with fluent configuration.
//
// Builder selects the backing container from the configuration:
//
//	q := waitq.Build[Event](waitq.New(0))               // unbounded Deque
//	q := waitq.Build[Event](waitq.New(4096))            // Deque, 4096 slots pre-allocated
//	q := waitq.Build[Event](waitq.New(64).Overwrite())  // Ring, last 64 win
//
// For queues over caller-owned storage use NewRingViewQueue directly.
type Builder struct {
	opts Options
}

// New creates a queue builder.
//
// capacity is a pre-allocation hint for unbounded queues (0 means none) and
// the exact bound for Overwrite queues.
//
// Panics if capacity < 0.
func New(capacity int) *Builder {
	if capacity < 0 {
		panic("waitq: capacity must be >= 0")
	}
	return &Builder{opts: Options{capacity: capacity}}
}

// Overwrite selects a fixed-capacity Ring: a push into a full queue
// overwrites the oldest element instead of growing.
//
// Overwrite queues trade backpressure for bounded memory. Producers never
// fail for lack of space; slow consumers lose the oldest data.
func (b *Builder) Overwrite() *Builder {
	b.opts.overwrite = true
	return b
}

// Build creates a queue with automatic container selection.
//
// Container selection:
//
//	Overwrite() → Ring (capacity must be >= 1)
//	default     → Deque (capacity pre-allocated)
//
// For the concrete queue type use BuildDeque[T](b) or BuildRing[T](b).
func Build[T any](b *Builder) Interface[T] {
	if b.opts.overwrite {
		return BuildRing[T](b)
	}
	return BuildDeque[T](b)
}

// BuildDeque creates an unbounded queue with compile-time type safety.
// Panics if builder is configured with Overwrite().
func BuildDeque[T any](b *Builder) *Queue[T, *Deque[T]] {
	if b.opts.overwrite {
		panic("waitq: BuildDeque requires no Overwrite()")
	}
	return NewQueueOf[T](NewDeque[T](b.opts.capacity))
}

// BuildRing creates a fixed-capacity queue with compile-time type safety.
// Panics if builder is not configured with Overwrite(), or capacity < 1.
func BuildRing[T any](b *Builder) *Queue[T, *Ring[T]] {
	if !b.opts.overwrite {
		panic("waitq: BuildRing requires Overwrite()")
	}
	return NewRingQueue[T](b.opts.capacity)
}

var (
	_ Interface[int] = (*Queue[int, *Deque[int]])(nil)
	_ Interface[int] = (*Queue[int, *Ring[int]])(nil)
	_ Interface[int] = (*Queue[int, *RingView[int]])(nil)
)
