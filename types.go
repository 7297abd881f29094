// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package waitq

import (
	"context"
	"iter"
	"time"
)

// Container is the structural contract a backing store must satisfy.
//
// Container is used as a type-parameter constraint, not as a runtime
// interface: Queue[T, C] calls the concrete C methods directly. All calls
// happen with the queue's mutex held, so implementations need no
// synchronization of their own.
//
// Len() == 0 is the emptiness test. PushBack and EmplaceBack must always
// logically succeed: fixed-capacity containers overwrite their oldest element
// instead of rejecting the insert. PopFront is only called on a non-empty
// container and may panic otherwise.
//
// Provided implementations:
//
//	Deque[T]     - unbounded, grows by doubling (default)
//	RingView[T]  - fixed capacity over caller-supplied storage, never allocates
//	Ring[T]      - fixed capacity, allocates once at construction
type Container[T any] interface {
	// Len returns the number of stored elements.
	Len() int

	// PushBack appends v at the back.
	PushBack(v T)

	// EmplaceBack appends a new element at the back and initializes it in
	// place by calling init with a pointer into the container storage.
	// If init panics, the container must be left exactly as it was.
	EmplaceBack(init func(*T))

	// PopFront removes and returns the front element.
	PopFront() T

	// All yields the elements front to back without removing them.
	All() iter.Seq[T]
}

// Producer is the interface for enqueueing elements.
//
// Producer has the same shape as the producer side of the hybscloud lock-free
// queues, so a blocking queue can stand in for one. The queue stores a copy
// of the pointed-to value.
type Producer[T any] interface {
	// Enqueue adds an element to the queue.
	// Returns nil on success, ErrClosed if the queue is closed.
	Enqueue(elem *T) error
}

// Consumer is the interface for non-blocking dequeue.
type Consumer[T any] interface {
	// Dequeue removes and returns the front element (non-blocking).
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	Dequeue() (T, error)
}

// Drainer signals that no more enqueues will occur.
//
// For a Queue, Drain is Close: producers are rejected and blocked consumers
// are woken to drain what remains.
type Drainer interface {
	Drain()
}

// Interface is the full operation set of a Queue, independent of its
// backing container type.
//
// Build returns an Interface so the container can be chosen at runtime.
// Code that knows the container type should hold the concrete *Queue[T, C].
type Interface[T any] interface {
	Producer[T]
	Consumer[T]
	Drainer

	Push(v T) bool
	Emplace(init func(*T)) bool

	WaitAndPop() (T, bool)
	WaitAndPopContext(ctx context.Context) (T, error)
	WaitAndPopTimeout(d time.Duration) (T, error)
	TryPop() (T, bool)

	Apply(fn func(T))
	Snapshot() []T

	Open()
	Close()
	IsClosed() bool

	Len() int
	Empty() bool
	Cap() int
	Waiters() int
	Stats() Stats
}

// bounded is implemented by fixed-capacity containers.
type bounded interface {
	Cap() int
}
