// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package waitq_test

import (
	"testing"

	"code.hybscloud.com/waitq"
)

// TestBuildSelection verifies Build picks the container from the options.
func TestBuildSelection(t *testing.T) {
	tests := []struct {
		name    string
		builder *waitq.Builder
		wantCap int
		isRing  bool
	}{
		{"unbounded", waitq.New(0), 0, false},
		{"presized", waitq.New(1024), 0, false},
		{"overwrite", waitq.New(8).Overwrite(), 8, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := waitq.Build[int](tt.builder)
			if q.Cap() != tt.wantCap {
				t.Fatalf("Cap: got %d, want %d", q.Cap(), tt.wantCap)
			}
			_, isRing := q.(*waitq.Queue[int, *waitq.Ring[int]])
			if isRing != tt.isRing {
				t.Fatalf("%T: ring=%v, want %v", q, isRing, tt.isRing)
			}
			if !q.Push(1) {
				t.Fatalf("Push: got false")
			}
			if v, ok := q.TryPop(); !ok || v != 1 {
				t.Fatalf("TryPop: got %d,%v want 1,true", v, ok)
			}
		})
	}
}

func TestBuildTyped(t *testing.T) {
	d := waitq.BuildDeque[string](waitq.New(16))
	d.Push("a")
	if d.Len() != 1 {
		t.Fatalf("BuildDeque Len: got %d, want 1", d.Len())
	}

	r := waitq.BuildRing[string](waitq.New(2).Overwrite())
	r.Push("a")
	r.Push("b")
	r.Push("c")
	if v, _ := r.TryPop(); v != "b" {
		t.Fatalf("BuildRing TryPop: got %q, want b", v)
	}
}

func TestBuilderPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"New(-1)", func() { waitq.New(-1) }},
		{"BuildDeque with Overwrite", func() { waitq.BuildDeque[int](waitq.New(4).Overwrite()) }},
		{"BuildRing without Overwrite", func() { waitq.BuildRing[int](waitq.New(4)) }},
		{"Overwrite with zero capacity", func() { waitq.Build[int](waitq.New(0).Overwrite()) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: want panic", tt.name)
				}
			}()
			tt.fn()
		})
	}
}
