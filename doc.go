// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package waitq provides a blocking multi-producer multi-consumer FIFO queue.
//
// A Queue moves values of any type between goroutines. Producers Push,
// consumers either WaitAndPop (park until data arrives or the queue closes)
// or TryPop (never park). Close rejects further pushes and wakes every
// parked consumer, which then drains what is left and exits.
//
// # Quick Start
//
//	q := waitq.NewQueue[Event]()            // unbounded
//	q := waitq.NewRingQueue[Event](1024)    // fixed capacity, last 1024 win
//
// Builder API selects the container from configuration:
//
//	q := waitq.Build[Event](waitq.New(0))                // → Deque
//	q := waitq.Build[Event](waitq.New(1024).Overwrite()) // → Ring
//
// # Basic Usage
//
//	q := waitq.NewQueue[int]()
//
//	// Push (never parks)
//	if !q.Push(42) {
//	    // Queue is closed
//	}
//
//	// Blocking pop
//	v, ok := q.WaitAndPop()
//	if !ok {
//	    // Queue is closed and empty - shut down
//	}
//
//	// Non-blocking pop
//	v, ok = q.TryPop()
//	if !ok {
//	    // Queue is empty right now
//	}
//
// # Common Patterns
//
// Worker Pool:
//
//	jobs := waitq.NewQueue[Job]()
//
//	var wg sync.WaitGroup
//	for range numWorkers {
//	    wg.Add(1)
//	    go func() {
//	        defer wg.Done()
//	        for {
//	            job, ok := jobs.WaitAndPop()
//	            if !ok {
//	                return
//	            }
//	            job.Run()
//	        }
//	    }()
//	}
//
//	for _, j := range pending {
//	    jobs.Push(j)
//	}
//	jobs.Close() // workers finish the backlog, then return
//	wg.Wait()
//
// Bounded wait:
//
//	ctx, cancel := context.WithTimeout(ctx, time.Second)
//	defer cancel()
//	ev, err := q.WaitAndPopContext(ctx)
//	switch {
//	case err == nil:
//	    handle(ev)
//	case waitq.IsClosed(err):
//	    return // shut down
//	default:
//	    // ctx done
//	}
//
// Latest samples only (no allocation after construction):
//
//	var buf [256]Sample
//	q := waitq.NewRingViewQueue(buf[:])
//	q.Push(s) // overwrites the oldest sample when full
//
// # Containers
//
// The backing container is a type parameter constrained by [Container]:
//
//	Deque[T]     - unbounded growable ring slice (default)
//	RingView[T]  - fixed capacity over caller-owned storage, zero allocation
//	Ring[T]      - fixed capacity, storage allocated once
//
// Fixed-capacity containers overwrite the oldest element when full: Push on
// a full ring still succeeds. Choose them for last-N-wins semantics, not for
// backpressure. Any type implementing [Container] can back a queue through
// [NewQueueOf].
//
// # Element Semantics
//
// Elements are stored by value. Pops zero the vacated slot so the queue
// holds no stale references. [Queue.Emplace] constructs an element directly
// in container storage; [Queue.Enqueue] takes the element by pointer to
// avoid a copy at the call site.
//
// [Queue.Apply] walks the queue front to back under the lock, passing each
// element by value. The callback must be short and must not call back into
// the queue.
//
// # Error Handling
//
// The core operations report through return values: Push returns false when
// closed, pops return ok == false when no element is available. The
// Producer and Consumer methods return errors instead:
//
//	q.Enqueue(&v)  // ErrClosed when closed
//	q.Dequeue()    // ErrWouldBlock when empty
//
// [ErrWouldBlock] is sourced from [code.hybscloud.com/iox] for ecosystem
// consistency, so the usual retry loop applies:
//
//	backoff := iox.Backoff{}
//	for {
//	    v, err := q.Dequeue()
//	    if err == nil {
//	        backoff.Reset()
//	        handle(v)
//	        continue
//	    }
//	    if waitq.IsClosed(err) || !waitq.IsWouldBlock(err) {
//	        return err
//	    }
//	    backoff.Wait()
//	}
//
// # Thread Safety
//
// Every operation is safe for any number of concurrent producers and
// consumers. One mutex serializes all access: the lock totally orders pushes
// and pops, so the N-th successful push is seen by the N-th successful pop.
// Which parked consumer a Push wakes is unspecified.
//
// Len, Empty, IsClosed and Waiters return point-in-time snapshots that may
// be stale by the time the caller acts on them.
//
// # Lifecycle
//
// Close and Open may be called any number of times, from any goroutine.
// Close keeps queued elements; only pops remove them. Callers must Close the
// queue and join every consumer before dropping it: a consumer parked in
// WaitAndPop on an abandoned queue is leaked.
//
// # Statistics
//
// [Queue.Stats] returns lock-free counter snapshots backed by
// [code.hybscloud.com/atomix]. The metrics subpackage exports them to
// Prometheus.
package waitq
