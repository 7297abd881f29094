// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package demo

import (
	"bytes"
	"context"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// generated replays the values device id pushes for cfg.
func generated(cfg Config, id int) []int {
	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(id)))
	out := make([]int, cfg.Samples)
	for i := range out {
		out[i] = id*100 + rng.IntN(100)
	}
	return out
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"default", func(*Config) {}, nil},
		{"devices", func(c *Config) { c.Devices = 0 }, ErrDevices},
		{"workers", func(c *Config) { c.Workers = -1 }, ErrWorkers},
		{"samples", func(c *Config) { c.Samples = 0 }, ErrSamples},
		{"batch", func(c *Config) { c.Batch = 0 }, ErrBatch},
		{"interval", func(c *Config) { c.Interval = -time.Second }, ErrInterval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)

			_, err = Run(context.Background(), cfg)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRunCollectsEverything(t *testing.T) {
	for _, poll := range []bool{false, true} {
		name := "blocking"
		if poll {
			name = "poll"
		}
		t.Run(name, func(t *testing.T) {
			cfg := Config{
				Devices: 6,
				Workers: 3,
				Samples: 23, // not a multiple of Batch: partial lines get flushed
				Batch:   5,
				Poll:    poll,
				Seed:    42,
				Log:     zaptest.NewLogger(t),
			}
			p, err := New(cfg)
			require.NoError(t, err)

			report, err := p.Run(context.Background())
			require.NoError(t, err)
			require.Len(t, report.Rows, cfg.Devices)
			require.Equal(t, cfg.Devices*cfg.Samples, report.Count())

			for id, row := range report.Rows {
				want := generated(cfg, id)
				slices.Sort(want)
				got := slices.Clone(row)
				slices.Sort(got)
				require.Equal(t, want, got, "centile %d", id)
			}

			require.True(t, p.Samples().IsClosed())
			require.True(t, p.Lines().IsClosed())
			require.True(t, p.Samples().Empty())
			require.True(t, p.Lines().Empty())

			s := p.Samples().Stats()
			require.EqualValues(t, cfg.Devices*cfg.Samples, s.Pushed)
			require.EqualValues(t, cfg.Devices*cfg.Samples, s.Popped)
			require.Zero(t, s.Rejected)
			require.Zero(t, s.Waiting)
		})
	}
}

// With a single worker every stage is FIFO, so each row is exactly the
// device's output in order.
func TestRunSingleWorkerKeepsOrder(t *testing.T) {
	cfg := Config{
		Devices:  4,
		Workers:  1,
		Samples:  12,
		Batch:    5,
		Interval: 100 * time.Microsecond,
		Seed:     7,
		Log:      zaptest.NewLogger(t),
	}
	report, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	for id, row := range report.Rows {
		require.Equal(t, generated(cfg, id), row, "centile %d", id)
	}
}

func TestRunCanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := DefaultConfig()
	cfg.Log = zaptest.NewLogger(t)
	report, err := Run(ctx, cfg)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, report.Count())
	require.Len(t, report.Rows, cfg.Devices)
}

func TestRunCanceledMidway(t *testing.T) {
	cfg := Config{
		Devices:  3,
		Workers:  2,
		Samples:  1 << 20,
		Batch:    4,
		Interval: time.Millisecond,
		Log:      zaptest.NewLogger(t),
	}
	p, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	var report Report
	go func() {
		defer close(done)
		report, err = p.Run(ctx)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, report.Count(), cfg.Devices*cfg.Samples)
	require.EqualValues(t, report.Count(), p.Samples().Stats().Popped)
	for id, row := range report.Rows {
		for _, v := range row {
			require.Equal(t, id, v/100)
		}
	}
}

func TestReportWriteTo(t *testing.T) {
	r := Report{Rows: [][]int{{30, 71, 2}, {103}, nil}}

	var buf bytes.Buffer
	n, err := r.WriteTo(&buf)
	require.NoError(t, err)

	want := "Data Report\n" +
		"[0]\t  30   71    2\n" +
		"[1]\t 103\n" +
		"[2]\t\n"
	require.Equal(t, want, buf.String())
	require.EqualValues(t, len(want), n)
	require.Equal(t, 4, r.Count())
}
