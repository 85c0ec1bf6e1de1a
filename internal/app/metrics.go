package app

import (
	"sync/atomic"
	"time"
)

// timing accumulates durations of one kind of work.
type timing struct {
	count   atomic.Uint64
	totalNs atomic.Int64
	maxNs   atomic.Int64
}

func (t *timing) record(d time.Duration) {
	ns := d.Nanoseconds()
	t.count.Add(1)
	t.totalNs.Add(ns)
	for {
		old := t.maxNs.Load()
		if ns <= old || t.maxNs.CompareAndSwap(old, ns) {
			return
		}
	}
}

func (t *timing) average() time.Duration {
	n := t.count.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(t.totalNs.Load() / int64(n))
}

// Metrics counts what the host loop did. It is safe to read from any
// goroutine while Run is active.
type Metrics struct {
	input        timing
	render       timing
	inputDropped atomic.Uint64
	rejected     atomic.Uint64
	startTime    time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordInput records the time spent handling one input event.
func (m *Metrics) RecordInput(d time.Duration) { m.input.record(d) }

// RecordRender records the time spent drawing one frame.
func (m *Metrics) RecordRender(d time.Duration) { m.render.record(d) }

// RecordInputDropped counts an event lost to a full queue.
func (m *Metrics) RecordInputDropped() { m.inputDropped.Add(1) }

// RecordRejected counts an edit the field refused.
func (m *Metrics) RecordRejected() { m.rejected.Add(1) }

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Uptime       time.Duration
	InputCount   uint64
	AvgInput     time.Duration
	MaxInput     time.Duration
	InputDropped uint64
	Rejected     uint64
	RenderCount  uint64
	AvgRender    time.Duration
	MaxRender    time.Duration
}

// Snapshot returns the current values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Uptime:       time.Since(m.startTime),
		InputCount:   m.input.count.Load(),
		AvgInput:     m.input.average(),
		MaxInput:     time.Duration(m.input.maxNs.Load()),
		InputDropped: m.inputDropped.Load(),
		Rejected:     m.rejected.Load(),
		RenderCount:  m.render.count.Load(),
		AvgRender:    m.render.average(),
		MaxRender:    time.Duration(m.render.maxNs.Load()),
	}
}
