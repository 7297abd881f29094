// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package waitq

import (
	"context"
	"sync"
	"time"
)

// Queue is a multi-producer multi-consumer FIFO transfer queue with blocking
// and non-blocking pops and a cooperative open/close lifecycle.
//
// The backing container C is a type parameter, so the queue calls its
// methods directly without a virtual container interface. One mutex guards
// the container and the closed flag together; consumers park on a condition
// variable bound to that mutex until the queue is non-empty or closed.
//
// Lifecycle:
//
//	q := waitq.NewQueue[Job]()
//
//	// Consumers
//	for range numWorkers {
//	    go func() {
//	        for {
//	            job, ok := q.WaitAndPop()
//	            if !ok {
//	                return // closed and drained
//	            }
//	            job.Run()
//	        }
//	    }()
//	}
//
//	// Producers
//	q.Push(job)
//
//	// Shutdown: reject new pushes, wake every parked consumer
//	q.Close()
//
// Close does not discard queued elements; consumers keep receiving them until
// the queue is empty. Open re-enables pushes.
//
// A Queue must not be copied after first use, and callers must Close it and
// join every consumer before dropping the last reference.
type Queue[T any, C Container[T]] struct {
	mu       sync.Mutex
	nonEmpty sync.Cond // signalled when elems becomes non-empty or closed becomes true
	elems    C
	closed   bool
	waiters  int
	bound    int // fixed capacity of elems, 0 if unbounded
	stats    counters
}

// NewQueue creates an open, empty queue backed by an unbounded Deque.
func NewQueue[T any]() *Queue[T, *Deque[T]] {
	return NewQueueOf[T](new(Deque[T]))
}

// NewQueueOf creates an open queue over an existing container.
//
// The queue takes ownership of c: the caller must not use it afterwards.
// Elements already in c are queued, front first.
//
// Example:
//
//	q := waitq.NewQueueOf[int](waitq.NewDeque[int](4096)) // pre-sized
//	r := waitq.NewQueueOf[int](waitq.NewRing[int](64))    // last 64 win
func NewQueueOf[T any, C Container[T]](c C) *Queue[T, C] {
	q := &Queue[T, C]{elems: c}
	q.nonEmpty.L = &q.mu
	if b, ok := any(c).(bounded); ok {
		q.bound = b.Cap()
	}
	return q
}

// NewRingQueue creates a queue backed by a Ring of the given capacity.
// Panics if capacity < 1.
func NewRingQueue[T any](capacity int) *Queue[T, *Ring[T]] {
	return NewQueueOf[T](NewRing[T](capacity))
}

// NewRingViewQueue creates a queue backed by a RingView over buf.
// Panics if buf is empty.
func NewRingViewQueue[T any](buf []T) *Queue[T, *RingView[T]] {
	return NewQueueOf[T](NewRingView(buf))
}

// Push appends v at the back of the queue.
//
// Returns false, leaving the queue untouched, if the queue is closed.
// On a full fixed-capacity queue the oldest element is overwritten and Push
// still returns true. A panic from the container propagates with the queue
// unlocked.
func (q *Queue[T, C]) Push(v T) bool {
	overwrite, ok := q.beginPush()
	if !ok {
		return false
	}
	done := false
	defer func() {
		if !done {
			q.mu.Unlock()
		}
	}()
	q.elems.PushBack(v)
	done = true
	q.endPush(overwrite)
	return true
}

// Enqueue is Push in error form, taking the element by pointer.
// Returns ErrClosed if the queue is closed. A nil elem panics before the
// queue is touched.
func (q *Queue[T, C]) Enqueue(elem *T) error {
	if !q.Push(*elem) {
		return ErrClosed
	}
	return nil
}

// Emplace appends a new element constructed in place: init receives a
// pointer to the element's final storage inside the container.
//
// init runs with the queue locked and must not call back into q. If init
// panics the panic propagates, the queue is unlocked and unchanged.
//
// Returns false without calling init if the queue is closed.
func (q *Queue[T, C]) Emplace(init func(*T)) bool {
	overwrite, ok := q.beginPush()
	if !ok {
		return false
	}
	done := false
	defer func() {
		if !done {
			q.mu.Unlock()
		}
	}()
	q.elems.EmplaceBack(init)
	done = true
	q.endPush(overwrite)
	return true
}

// beginPush locks q and reports whether it accepts pushes and whether the
// next one overwrites the oldest element. When ok is false q is unlocked
// again before returning.
func (q *Queue[T, C]) beginPush() (overwrite, ok bool) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.stats.rejected.AddAcqRel(1)
		return false, false
	}
	return q.bound > 0 && q.elems.Len() == q.bound, true
}

// endPush unlocks q after a successful insert and signals at most one
// parked consumer.
func (q *Queue[T, C]) endPush(overwrite bool) {
	wake := q.waiters > 0
	q.mu.Unlock()

	q.stats.pushed.AddAcqRel(1)
	if overwrite {
		q.stats.overwritten.AddAcqRel(1)
	}
	if wake {
		q.nonEmpty.Signal()
	}
}

// WaitAndPop removes and returns the front element, parking until one is
// available.
//
// Returns (zero-value, false) once the queue is closed and empty. That is the
// shutdown signal for consumers, not an error. A closed queue that still
// holds elements keeps handing them out.
//
// There is no timeout; use WaitAndPopContext for a bounded wait.
func (q *Queue[T, C]) WaitAndPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.elems.Len() == 0 && !q.closed {
		q.park()
	}
	if q.elems.Len() == 0 {
		var zero T
		return zero, false
	}
	return q.popLocked(), true
}

// WaitAndPopContext is WaitAndPop bounded by ctx.
//
// Returns ErrClosed when the queue is closed and empty, or ctx.Err() when ctx
// is done first. An element present at wake-up is always taken before ctx is
// consulted, so a wake-up meant for this consumer is never dropped.
func (q *Queue[T, C]) WaitAndPopContext(ctx context.Context) (T, error) {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		q.nonEmpty.Broadcast()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		if q.elems.Len() > 0 {
			return q.popLocked(), nil
		}
		var zero T
		if q.closed {
			return zero, ErrClosed
		}
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		q.park()
	}
}

// WaitAndPopTimeout is WaitAndPop giving up after d.
// Returns context.DeadlineExceeded on timeout and ErrClosed when the queue
// is closed and empty.
func (q *Queue[T, C]) WaitAndPopTimeout(d time.Duration) (T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return q.WaitAndPopContext(ctx)
}

// park waits on nonEmpty. q.mu must be held.
func (q *Queue[T, C]) park() {
	q.waiters++
	q.stats.waits.AddAcqRel(1)
	q.stats.waiting.Add(1)
	q.nonEmpty.Wait()
	q.stats.waiting.Add(-1)
	q.waiters--
}

// popLocked removes the front element. q.mu must be held and the container
// non-empty.
func (q *Queue[T, C]) popLocked() T {
	v := q.elems.PopFront()
	q.stats.popped.AddAcqRel(1)
	return v
}

// TryPop removes and returns the front element without waiting.
// Returns (zero-value, false) if the queue is empty, whether or not it is
// closed.
func (q *Queue[T, C]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.elems.Len() == 0 {
		q.stats.misses.AddAcqRel(1)
		var zero T
		return zero, false
	}
	return q.popLocked(), true
}

// Dequeue is TryPop in error form.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *Queue[T, C]) Dequeue() (T, error) {
	v, ok := q.TryPop()
	if !ok {
		return v, ErrWouldBlock
	}
	return v, nil
}

// Apply calls fn on every queued element, front to back.
//
// Elements are passed by value, so fn cannot replace them in the queue; fn
// must still not mutate what they point to. The queue stays locked for the
// whole traversal: keep fn short, and never call q's methods from it.
func (q *Queue[T, C]) Apply(fn func(T)) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for v := range q.elems.All() {
		fn(v)
	}
}

// Snapshot returns a copy of the queued elements, front first.
// Returns nil if the queue is empty.
func (q *Queue[T, C]) Snapshot() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.elems.Len() == 0 {
		return nil
	}
	out := make([]T, 0, q.elems.Len())
	for v := range q.elems.All() {
		out = append(out, v)
	}
	return out
}

// Close rejects further pushes and wakes every parked consumer.
//
// Queued elements are kept. Closing a closed queue is harmless and wakes
// waiters again.
func (q *Queue[T, C]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.nonEmpty.Broadcast()
}

// Drain is Close. It lets a Queue satisfy Drainer.
func (q *Queue[T, C]) Drain() {
	q.Close()
}

// Open re-enables pushes. It wakes nobody: consumers never wait for a
// queue to reopen.
func (q *Queue[T, C]) Open() {
	q.mu.Lock()
	q.closed = false
	q.mu.Unlock()
}

// IsClosed reports whether the queue is closed.
func (q *Queue[T, C]) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the number of queued elements.
func (q *Queue[T, C]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.elems.Len()
}

// Empty reports whether the queue holds no elements.
func (q *Queue[T, C]) Empty() bool {
	return q.Len() == 0
}

// Cap returns the fixed capacity of the backing container, or 0 if it is
// unbounded.
func (q *Queue[T, C]) Cap() int {
	return q.bound
}

// Waiters returns the number of consumers currently parked in a blocking pop.
func (q *Queue[T, C]) Waiters() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.waiters
}

// Stats returns a snapshot of the queue's counters.
func (q *Queue[T, C]) Stats() Stats {
	return q.stats.snapshot()
}
