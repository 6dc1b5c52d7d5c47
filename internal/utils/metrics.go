// internal/utils/metrics.go
package utils

import (
	"sync"
	"sync/atomic"
)

// MetricsCollector 收集进程内运行指标
// 计数器与仪表使用原子操作，直方图使用互斥锁
type MetricsCollector struct {
	counters   map[string]*Counter
	gauges     map[string]*Gauge
	histograms map[string]*Histogram

	mu sync.RWMutex
}

// Counter 单调递增计数器
type Counter struct {
	name  string
	value int64
}

// Gauge 可增可减的瞬时值
type Gauge struct {
	name  string
	value int64
}

// Histogram 简单直方图（count/sum/min/max）
type Histogram struct {
	name  string
	count int64
	sum   int64
	min   int64
	max   int64
	mu    sync.Mutex
}

var (
	globalMetrics *MetricsCollector
	metricsOnce   sync.Once
)

// GetMetricsCollector 获取全局指标收集器
func GetMetricsCollector() *MetricsCollector {
	metricsOnce.Do(func() {
		globalMetrics = &MetricsCollector{
			counters:   make(map[string]*Counter),
			gauges:     make(map[string]*Gauge),
			histograms: make(map[string]*Histogram),
		}
	})
	return globalMetrics
}

// IncrementCounter 递增指定计数器
func (m *MetricsCollector) IncrementCounter(name string) {
	c := m.counter(name)
	atomic.AddInt64(&c.value, 1)
}

// CounterValue 读取计数器当前值
func (m *MetricsCollector) CounterValue(name string) int64 {
	c := m.counter(name)
	return atomic.LoadInt64(&c.value)
}

// SetGauge 设置仪表值
func (m *MetricsCollector) SetGauge(name string, value int64) {
	g := m.gauge(name)
	atomic.StoreInt64(&g.value, value)
}

// GaugeValue 读取仪表当前值
func (m *MetricsCollector) GaugeValue(name string) int64 {
	g := m.gauge(name)
	return atomic.LoadInt64(&g.value)
}

// RecordHistogram 记录一个观测值（如请求耗时毫秒数）
func (m *MetricsCollector) RecordHistogram(name string, value int64) {
	h := m.histogram(name)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.count++
	h.sum += value
	if h.count == 1 || value < h.min {
		h.min = value
	}
	if value > h.max {
		h.max = value
	}
}

// HistogramSnapshot 读取直方图汇总
func (m *MetricsCollector) HistogramSnapshot(name string) (count, sum, min, max int64) {
	h := m.histogram(name)

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.count, h.sum, h.min, h.max
}

// Snapshot 导出全部计数器与仪表的当前值
func (m *MetricsCollector) Snapshot() map[string]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]int64, len(m.counters)+len(m.gauges))
	for name, c := range m.counters {
		out[name] = atomic.LoadInt64(&c.value)
	}
	for name, g := range m.gauges {
		out[name] = atomic.LoadInt64(&g.value)
	}
	return out
}

func (m *MetricsCollector) counter(name string) *Counter {
	m.mu.RLock()
	c, ok := m.counters[name]
	m.mu.RUnlock()
	if ok {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok = m.counters[name]; ok {
		return c
	}
	c = &Counter{name: name}
	m.counters[name] = c
	return c
}

func (m *MetricsCollector) gauge(name string) *Gauge {
	m.mu.RLock()
	g, ok := m.gauges[name]
	m.mu.RUnlock()
	if ok {
		return g
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok = m.gauges[name]; ok {
		return g
	}
	g = &Gauge{name: name}
	m.gauges[name] = g
	return g
}

func (m *MetricsCollector) histogram(name string) *Histogram {
	m.mu.RLock()
	h, ok := m.histograms[name]
	m.mu.RUnlock()
	if ok {
		return h
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok = m.histograms[name]; ok {
		return h
	}
	h = &Histogram{name: name}
	m.histograms[name] = h
	return h
}
