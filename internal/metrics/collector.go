// Package metrics provides in-memory timing statistics for organize runs.
package metrics

import (
	"math"
	"sync"
	"time"
)

// OperationMetrics holds aggregated metrics for a single operation type.
type OperationMetrics struct {
	Count     int64
	Failures  int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64   `json:"count" yaml:"count"`
	Failures    int64   `json:"failures" yaml:"failures"`
	TotalTimeMs int64   `json:"total_time_ms" yaml:"total_time_ms"`
	AvgTimeMs   float64 `json:"avg_time_ms" yaml:"avg_time_ms"`
	MinTimeMs   int64   `json:"min_time_ms" yaml:"min_time_ms"`
	MaxTimeMs   int64   `json:"max_time_ms" yaml:"max_time_ms"`
}

// Snapshot represents the run statistics at a point in time.
type Snapshot struct {
	ElapsedSeconds float64            `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	ListDir        *OperationSnapshot `json:"list_dir,omitempty" yaml:"list_dir,omitempty"`
	Cluster        *OperationSnapshot `json:"cluster,omitempty" yaml:"cluster,omitempty"`
	Mkdir          *OperationSnapshot `json:"mkdir,omitempty" yaml:"mkdir,omitempty"`
	Move           *OperationSnapshot `json:"move,omitempty" yaml:"move,omitempty"`
}

// Operation names for the collector.
const (
	OpListDir = "list_dir"
	OpCluster = "cluster"
	OpMkdir   = "mkdir"
	OpMove    = "move"
)

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe and a nil *Collector discards everything.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{MinTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}
	return m
}

// RecordTiming records one completed operation.
func (c *Collector) RecordTiming(op string, duration time.Duration, failed bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	if failed {
		m.Failures++
	}
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// Track starts timing op and returns a func that records it.
//
//	done := c.Track(metrics.OpMove)
//	err := os.Rename(src, dst)
//	done(err)
func (c *Collector) Track(op string) func(err error) {
	start := time.Now()
	return func(err error) {
		c.RecordTiming(op, time.Since(start), err != nil)
	}
}

// snapshotOp creates a snapshot for an operation, returning nil if no data.
func snapshotOp(m *OperationMetrics) *OperationSnapshot {
	if m == nil || m.Count == 0 {
		return nil
	}

	return &OperationSnapshot{
		Count:       m.Count,
		Failures:    m.Failures,
		TotalTimeMs: m.TotalTime.Milliseconds(),
		AvgTimeMs:   float64(m.TotalTime.Milliseconds()) / float64(m.Count),
		MinTimeMs:   m.MinTime.Milliseconds(),
		MaxTimeMs:   m.MaxTime.Milliseconds(),
	}
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		ElapsedSeconds: time.Since(c.startTime).Seconds(),
		ListDir:        snapshotOp(c.ops[OpListDir]),
		Cluster:        snapshotOp(c.ops[OpCluster]),
		Mkdir:          snapshotOp(c.ops[OpMkdir]),
		Move:           snapshotOp(c.ops[OpMove]),
	}
}
