// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package demo runs a small device → worker → collector pipeline over two
// waitq queues.
//
// Each device produces numbers in its own centile (device i emits values in
// [i*100, i*100+99]). Workers group them by centile and, every Batch values,
// hand a Line to the collector, which assembles the Report.
package demo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"code.hybscloud.com/iox"
	"go.uber.org/zap"

	"code.hybscloud.com/waitq"
)

// Configuration errors returned by Config.Validate.
var (
	ErrDevices  = errors.New("demo: devices must be positive")
	ErrWorkers  = errors.New("demo: workers must be positive")
	ErrSamples  = errors.New("demo: samples must be positive")
	ErrBatch    = errors.New("demo: batch must be positive")
	ErrInterval = errors.New("demo: interval must not be negative")
)

// Config parameterizes a Pipeline.
type Config struct {
	Devices  int           // producer goroutines, one centile each
	Workers  int           // consumer goroutines
	Samples  int           // values per device
	Batch    int           // values per Line
	Interval time.Duration // pause between two values of one device
	Poll     bool          // workers use TryPop with backoff instead of WaitAndPop
	Seed     uint64

	// Log receives pipeline events. Nil means zap.NewNop().
	Log *zap.Logger
}

// DefaultConfig returns the settings used by the command line tool.
func DefaultConfig() Config {
	return Config{
		Devices:  10,
		Workers:  1,
		Samples:  20,
		Batch:    5,
		Interval: 2 * time.Millisecond,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Devices <= 0:
		return fmt.Errorf("%w: %d", ErrDevices, c.Devices)
	case c.Workers <= 0:
		return fmt.Errorf("%w: %d", ErrWorkers, c.Workers)
	case c.Samples <= 0:
		return fmt.Errorf("%w: %d", ErrSamples, c.Samples)
	case c.Batch <= 0:
		return fmt.Errorf("%w: %d", ErrBatch, c.Batch)
	case c.Interval < 0:
		return fmt.Errorf("%w: %v", ErrInterval, c.Interval)
	}
	return nil
}

// Line is a run of values from one centile, in the order a worker popped them.
type Line struct {
	Centile int
	Values  []int
}

// Pipeline owns the sample and line queues of one run.
type Pipeline struct {
	cfg     Config
	log     *zap.Logger
	samples waitq.Interface[int]
	lines   waitq.Interface[Line]
}

// New validates cfg and allocates the pipeline queues.
func New(cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		cfg:     cfg,
		log:     log,
		samples: waitq.Build[int](waitq.New(cfg.Devices * cfg.Workers)),
		lines:   waitq.Build[Line](waitq.New(cfg.Devices)),
	}, nil
}

// Samples returns the queue devices push into.
func (p *Pipeline) Samples() waitq.Interface[int] { return p.samples }

// Lines returns the queue workers push into.
func (p *Pipeline) Lines() waitq.Interface[Line] { return p.lines }

// Run starts the pipeline and blocks until it has shut down.
//
// Cancelling ctx stops the devices early; values already queued still reach
// the Report. The returned error is ctx.Err() in that case.
func Run(ctx context.Context, cfg Config) (Report, error) {
	p, err := New(cfg)
	if err != nil {
		return Report{}, err
	}
	return p.Run(ctx)
}

// Run starts devices, workers and the collector, then shuts them down in
// order: devices finish, samples close, workers flush, lines close, the
// collector returns. A Pipeline runs once.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	p.log.Info("Starting pipeline",
		zap.Int("devices", p.cfg.Devices),
		zap.Int("workers", p.cfg.Workers),
		zap.Int("samples", p.cfg.Samples),
		zap.Int("batch", p.cfg.Batch),
		zap.Duration("interval", p.cfg.Interval),
		zap.Bool("poll", p.cfg.Poll),
	)

	report := newReport(p.cfg.Devices)
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		p.collect(&report)
	}()

	var workers sync.WaitGroup
	for id := range p.cfg.Workers {
		workers.Add(1)
		go func() {
			defer workers.Done()
			p.work(id)
		}()
	}

	var devices sync.WaitGroup
	for id := range p.cfg.Devices {
		devices.Add(1)
		go func() {
			defer devices.Done()
			p.produce(ctx, id)
		}()
	}

	devices.Wait()
	p.samples.Close()
	workers.Wait()
	p.lines.Close()
	<-collected

	err := ctx.Err()
	p.log.Info("Pipeline finished",
		zap.Int("values", report.Count()),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
	return report, err
}

func (p *Pipeline) produce(ctx context.Context, id int) {
	rng := rand.New(rand.NewPCG(p.cfg.Seed, uint64(id)))
	base := id * 100

	var tick *time.Ticker
	if p.cfg.Interval > 0 {
		tick = time.NewTicker(p.cfg.Interval)
		defer tick.Stop()
	}

	for n := range p.cfg.Samples {
		if tick != nil {
			select {
			case <-ctx.Done():
			case <-tick.C:
			}
		}
		if ctx.Err() != nil {
			p.log.Debug("Device stopped", zap.Int("device", id), zap.Int("pushed", n))
			return
		}
		if !p.samples.Push(base + rng.IntN(100)) {
			p.log.Warn("Sample queue closed early", zap.Int("device", id))
			return
		}
	}
	p.log.Debug("Device done", zap.Int("device", id))
}

func (p *Pipeline) work(id int) {
	buckets := make(map[int][]int, p.cfg.Devices)
	pop := p.samples.WaitAndPop
	if p.cfg.Poll {
		pop = p.poll
	}

	for {
		v, ok := pop()
		if !ok {
			break
		}
		c := v / 100
		buckets[c] = append(buckets[c], v)
		if len(buckets[c]) >= p.cfg.Batch {
			p.emit(c, buckets[c])
			buckets[c] = buckets[c][:0]
		}
	}

	// Partial batches still belong in the report.
	for c, vs := range buckets {
		if len(vs) > 0 {
			p.emit(c, vs)
		}
	}
	p.log.Debug("Worker done", zap.Int("worker", id))
}

// poll is the non-blocking counterpart of WaitAndPop: it spins with backoff
// until a value arrives or the queue is closed and empty.
func (p *Pipeline) poll() (int, bool) {
	var backoff iox.Backoff
	for {
		if v, ok := p.samples.TryPop(); ok {
			return v, true
		}
		if p.samples.IsClosed() {
			// Pushes fail once closed; one last look settles it.
			return p.samples.TryPop()
		}
		backoff.Wait()
	}
}

func (p *Pipeline) emit(centile int, values []int) {
	ok := p.lines.Emplace(func(l *Line) {
		l.Centile = centile
		l.Values = append(l.Values, values...)
	})
	if !ok {
		p.log.Error("Line queue closed before workers finished", zap.Int("centile", centile))
	}
}

func (p *Pipeline) collect(r *Report) {
	for {
		l, ok := p.lines.WaitAndPop()
		if !ok {
			return
		}
		if l.Centile < 0 || l.Centile >= len(r.Rows) {
			p.log.Error("Line out of range", zap.Int("centile", l.Centile))
			continue
		}
		r.Rows[l.Centile] = append(r.Rows[l.Centile], l.Values...)
		p.log.Debug("Line collected", zap.Int("centile", l.Centile), zap.Int("values", len(l.Values)))
	}
}

// Report holds every collected value, one row per centile.
type Report struct {
	Rows [][]int
}

func newReport(devices int) Report {
	return Report{Rows: make([][]int, devices)}
}

// Count returns the number of values in r.
func (r Report) Count() int {
	n := 0
	for _, row := range r.Rows {
		n += len(row)
	}
	return n
}

// WriteTo prints the "Data Report" table, one row per centile.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	b.WriteString("Data Report\n")
	for i, row := range r.Rows {
		fmt.Fprintf(&b, "[%d]\t", i)
		for j, v := range row {
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%4d", v)
		}
		b.WriteByte('\n')
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

var _ io.WriterTo = Report{}
