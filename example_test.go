// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package waitq_test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"code.hybscloud.com/waitq"
)

// ExampleNewQueue demonstrates FIFO push and non-blocking pop.
func ExampleNewQueue() {
	q := waitq.NewQueue[int]()

	for _, v := range []int{42, 22, 102, -12, 17} {
		q.Push(v)
	}
	fmt.Println("len:", q.Len())

	for {
		v, ok := q.TryPop()
		if !ok {
			break
		}
		fmt.Println(v)
	}

	// Output:
	// len: 5
	// 42
	// 22
	// 102
	// -12
	// 17
}

// ExampleQueue_WaitAndPop demonstrates a worker pool shut down by Close.
func ExampleQueue_WaitAndPop() {
	jobs := waitq.NewQueue[int]()
	results := waitq.NewQueue[int]()

	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				n, ok := jobs.WaitAndPop()
				if !ok {
					return // closed and drained
				}
				results.Push(n * n)
			}
		}()
	}

	for i := 1; i <= 5; i++ {
		jobs.Push(i)
	}
	jobs.Close()
	wg.Wait()

	squares := results.Snapshot()
	slices.Sort(squares)
	fmt.Println(squares)

	// Output:
	// [1 4 9 16 25]
}

// ExampleQueue_Close demonstrates that Close rejects pushes but keeps the
// backlog for consumers.
func ExampleQueue_Close() {
	q := waitq.NewQueue[string]()
	q.Push("first")
	q.Push("second")
	q.Close()

	fmt.Println("push after close:", q.Push("third"))
	for {
		s, ok := q.WaitAndPop() // never parks on a closed queue
		if !ok {
			break
		}
		fmt.Println(s)
	}

	q.Open()
	fmt.Println("push after open:", q.Push("third"))

	// Output:
	// push after close: false
	// first
	// second
	// push after open: true
}

// ExampleNewRingViewQueue demonstrates last-N-wins storage over a caller
// array.
func ExampleNewRingViewQueue() {
	var buf [3]int
	q := waitq.NewRingViewQueue(buf[:])

	for i := 1; i <= 5; i++ {
		q.Push(i)
	}
	fmt.Println("len:", q.Len(), "cap:", q.Cap())
	q.Apply(func(v int) { fmt.Println(v) })

	// Output:
	// len: 3 cap: 3
	// 3
	// 4
	// 5
}

// ExampleQueue_Emplace demonstrates in-place construction.
func ExampleQueue_Emplace() {
	type frame struct {
		id      int
		payload []byte
	}
	q := waitq.NewQueue[frame]()

	q.Emplace(func(f *frame) {
		f.id = 7
		f.payload = append(f.payload, "hello"...)
	})

	f, _ := q.TryPop()
	fmt.Println(f.id, string(f.payload))

	// Output:
	// 7 hello
}

// ExampleQueue_WaitAndPopContext demonstrates a bounded wait.
func ExampleQueue_WaitAndPopContext() {
	q := waitq.NewQueue[int]()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := q.WaitAndPopContext(ctx)
	fmt.Println(err)

	q.Close()
	_, err = q.WaitAndPopContext(context.Background())
	fmt.Println(waitq.IsClosed(err))

	// Output:
	// context deadline exceeded
	// true
}

// ExampleBuild demonstrates container selection through the builder.
func ExampleBuild() {
	unbounded := waitq.Build[string](waitq.New(0))
	latest := waitq.Build[string](waitq.New(2).Overwrite())

	for _, s := range []string{"a", "b", "c"} {
		unbounded.Push(s)
		latest.Push(s)
	}
	fmt.Println(unbounded.Snapshot(), latest.Snapshot())

	// Output:
	// [a b c] [b c]
}
