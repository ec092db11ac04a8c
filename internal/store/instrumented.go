package store

import (
	"sync/atomic"
	"time"

	"membox/pkg/kv"
)

// OpMetrics holds counters and timing statistics for store operations.
// Uses atomic operations for thread-safe updates without locks.
type OpMetrics struct {
	GetCount    atomic.Uint64
	GetHits     atomic.Uint64
	SetCount    atomic.Uint64
	SetFailures atomic.Uint64
	DeleteCount atomic.Uint64
	DeleteHits  atomic.Uint64

	// Cumulative latencies in nanoseconds
	GetLatencyNs    atomic.Uint64
	SetLatencyNs    atomic.Uint64
	DeleteLatencyNs atomic.Uint64
}

// InstrumentedStore wraps any kv.Store implementation with timing and
// hit/miss metrics. The wrapper adds no semantics of its own: every call
// delegates straight to the underlying store.
type InstrumentedStore struct {
	store   kv.Store
	metrics *OpMetrics
}

// Compile-time check to ensure InstrumentedStore implements kv.Store.
var _ kv.Store = (*InstrumentedStore)(nil)

// NewInstrumentedStore wraps a store with instrumentation.
func NewInstrumentedStore(store kv.Store) *InstrumentedStore {
	return &InstrumentedStore{
		store:   store,
		metrics: &OpMetrics{},
	}
}

// Get delegates to the wrapped store and records timing and hit/miss.
func (s *InstrumentedStore) Get(key []byte) ([]byte, bool) {
	start := time.Now()
	value, found := s.store.Get(key)
	elapsed := time.Since(start).Nanoseconds()

	s.metrics.GetCount.Add(1)
	if found {
		s.metrics.GetHits.Add(1)
	}
	s.metrics.GetLatencyNs.Add(uint64(elapsed))

	return value, found
}

// Set delegates to the wrapped store and records timing.
func (s *InstrumentedStore) Set(key, value []byte) error {
	start := time.Now()
	err := s.store.Set(key, value)
	elapsed := time.Since(start).Nanoseconds()

	s.metrics.SetCount.Add(1)
	if err != nil {
		s.metrics.SetFailures.Add(1)
	}
	s.metrics.SetLatencyNs.Add(uint64(elapsed))

	return err
}

// Delete delegates to the wrapped store and records timing.
func (s *InstrumentedStore) Delete(key []byte) bool {
	start := time.Now()
	removed := s.store.Delete(key)
	elapsed := time.Since(start).Nanoseconds()

	s.metrics.DeleteCount.Add(1)
	if removed {
		s.metrics.DeleteHits.Add(1)
	}
	s.metrics.DeleteLatencyNs.Add(uint64(elapsed))

	return removed
}

// Metrics returns a snapshot of current metrics.
func (s *InstrumentedStore) Metrics() MetricsSnapshot {
	getCount := s.metrics.GetCount.Load()
	setCount := s.metrics.SetCount.Load()
	deleteCount := s.metrics.DeleteCount.Load()

	return MetricsSnapshot{
		GetCount:         getCount,
		GetHits:          s.metrics.GetHits.Load(),
		SetCount:         setCount,
		SetFailures:      s.metrics.SetFailures.Load(),
		DeleteCount:      deleteCount,
		DeleteHits:       s.metrics.DeleteHits.Load(),
		GetAvgLatency:    avgLatency(s.metrics.GetLatencyNs.Load(), getCount),
		SetAvgLatency:    avgLatency(s.metrics.SetLatencyNs.Load(), setCount),
		DeleteAvgLatency: avgLatency(s.metrics.DeleteLatencyNs.Load(), deleteCount),
	}
}

// ResetMetrics clears all metrics counters.
func (s *InstrumentedStore) ResetMetrics() {
	s.metrics.GetCount.Store(0)
	s.metrics.GetHits.Store(0)
	s.metrics.SetCount.Store(0)
	s.metrics.SetFailures.Store(0)
	s.metrics.DeleteCount.Store(0)
	s.metrics.DeleteHits.Store(0)
	s.metrics.GetLatencyNs.Store(0)
	s.metrics.SetLatencyNs.Store(0)
	s.metrics.DeleteLatencyNs.Store(0)
}

func avgLatency(totalNs, count uint64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(totalNs / count)
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	GetCount         uint64
	GetHits          uint64
	SetCount         uint64
	SetFailures      uint64
	DeleteCount      uint64
	DeleteHits       uint64
	GetAvgLatency    time.Duration
	SetAvgLatency    time.Duration
	DeleteAvgLatency time.Duration
}
