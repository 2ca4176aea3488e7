package mqttlite

import (
	"math"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// MemoryMetrics is an in-memory implementation of Metrics.
type MemoryMetrics struct {
	mu       sync.RWMutex
	counters map[string]*memoryCounter
	gauges   map[string]*memoryGauge
}

// NewMemoryMetrics creates a new in-memory metrics instance.
func NewMemoryMetrics() *MemoryMetrics {
	return &MemoryMetrics{
		counters: make(map[string]*memoryCounter),
		gauges:   make(map[string]*memoryGauge),
	}
}

// labelsKey builds a stable key; label order does not matter.
func labelsKey(name string, labels MetricLabels) string {
	if len(labels) == 0 {
		return name
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(name)
	for _, k := range keys {
		b.WriteString("|" + k + "=" + labels[k])
	}

	return b.String()
}

// Counter returns a counter metric.
func (m *MemoryMetrics) Counter(name string, labels MetricLabels) Counter {
	key := labelsKey(name, labels)

	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.counters[key]; ok {
		return c
	}

	c := &memoryCounter{}
	m.counters[key] = c

	return c
}

// Gauge returns a gauge metric.
func (m *MemoryMetrics) Gauge(name string, labels MetricLabels) Gauge {
	key := labelsKey(name, labels)

	m.mu.Lock()
	defer m.mu.Unlock()

	if g, ok := m.gauges[key]; ok {
		return g
	}

	g := &memoryGauge{}
	m.gauges[key] = g

	return g
}

// CounterValue returns the current value of a counter, or zero if it was never recorded.
func (m *MemoryMetrics) CounterValue(name string, labels MetricLabels) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if c, ok := m.counters[labelsKey(name, labels)]; ok {
		return c.Value()
	}
	return 0
}

// GaugeValue returns the current value of a gauge, or zero if it was never recorded.
func (m *MemoryMetrics) GaugeValue(name string, labels MetricLabels) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if g, ok := m.gauges[labelsKey(name, labels)]; ok {
		return g.Value()
	}
	return 0
}

type memoryCounter struct {
	value atomic.Uint64
}

func (c *memoryCounter) Inc() {
	c.Add(1)
}

func (c *memoryCounter) Add(delta float64) {
	for {
		old := c.value.Load()
		if c.value.CompareAndSwap(old, math.Float64bits(math.Float64frombits(old)+delta)) {
			return
		}
	}
}

func (c *memoryCounter) Value() float64 {
	return math.Float64frombits(c.value.Load())
}

type memoryGauge struct {
	value atomic.Uint64
}

func (g *memoryGauge) Set(value float64) {
	g.value.Store(math.Float64bits(value))
}

func (g *memoryGauge) Value() float64 {
	return math.Float64frombits(g.value.Load())
}
