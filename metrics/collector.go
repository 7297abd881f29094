// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics exports waitq queue statistics to Prometheus.
//
//	q := waitq.NewQueue[Job]()
//	prometheus.MustRegister(metrics.NewCollector("app", "jobs", q))
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"code.hybscloud.com/waitq"
)

// Source is what a Collector reads. Every *waitq.Queue satisfies it.
type Source interface {
	Stats() waitq.Stats
	Len() int
	Cap() int
	IsClosed() bool
}

// Collector is a prometheus.Collector over one queue.
//
// Values are read at scrape time: counters come from Stats, gauges from Len,
// Cap and IsClosed. All metrics carry a constant "queue" label.
type Collector struct {
	src Source

	pushed      *prometheus.Desc
	rejected    *prometheus.Desc
	overwritten *prometheus.Desc
	popped      *prometheus.Desc
	misses      *prometheus.Desc
	waits       *prometheus.Desc
	waiting     *prometheus.Desc
	length      *prometheus.Desc
	capacity    *prometheus.Desc
	closed      *prometheus.Desc
}

// NewCollector creates a Collector exporting src under namespace with the
// constant label queue=name.
func NewCollector(namespace, name string, src Source) *Collector {
	labels := prometheus.Labels{"queue": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "waitq", metric),
			help, nil, labels,
		)
	}
	return &Collector{
		src:         src,
		pushed:      desc("pushed_total", "Elements accepted by Push, Enqueue or Emplace."),
		rejected:    desc("rejected_total", "Pushes refused because the queue was closed."),
		overwritten: desc("overwritten_total", "Pushes that overwrote the oldest element of a full fixed-capacity queue."),
		popped:      desc("popped_total", "Elements removed by any pop."),
		misses:      desc("misses_total", "Non-blocking pops that found the queue empty."),
		waits:       desc("waits_total", "Times a consumer parked waiting for data."),
		waiting:     desc("waiting", "Consumers currently parked."),
		length:      desc("length", "Elements currently queued."),
		capacity:    desc("capacity", "Fixed capacity, 0 if unbounded."),
		closed:      desc("closed", "1 if the queue is closed, 0 if open."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.pushed
	ch <- c.rejected
	ch <- c.overwritten
	ch <- c.popped
	ch <- c.misses
	ch <- c.waits
	ch <- c.waiting
	ch <- c.length
	ch <- c.capacity
	ch <- c.closed
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}

	counter(c.pushed, s.Pushed)
	counter(c.rejected, s.Rejected)
	counter(c.overwritten, s.Overwritten)
	counter(c.popped, s.Popped)
	counter(c.misses, s.Misses)
	counter(c.waits, s.Waits)
	gauge(c.waiting, float64(s.Waiting))
	gauge(c.length, float64(c.src.Len()))
	gauge(c.capacity, float64(c.src.Cap()))

	closed := 0.0
	if c.src.IsClosed() {
		closed = 1
	}
	gauge(c.closed, closed)
}

var _ prometheus.Collector = (*Collector)(nil)
