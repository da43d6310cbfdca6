// Package telemetry provides forkjoin.Monitor implementations.
package telemetry

import (
	"sync/atomic"

	"go.uber.org/zap"

	"parfront/forkjoin"
)

// PoolCounters counts pool scheduling events. The zero value is ready to use.
type PoolCounters struct {
	spawns  atomic.Uint64
	inlines atomic.Uint64
	panics  atomic.Uint64
}

var _ forkjoin.Monitor = (*PoolCounters)(nil)

func (c *PoolCounters) OnSpawn(int)      { c.spawns.Add(1) }
func (c *PoolCounters) OnInline(int)     { c.inlines.Add(1) }
func (c *PoolCounters) OnPanic(int, any) { c.panics.Add(1) }

type PoolStats struct {
	Spawns  uint64
	Inlines uint64
	Panics  uint64
}

// SpawnRatio returns the share of split halves that ran on a fresh slot.
func (s PoolStats) SpawnRatio() float64 {
	total := s.Spawns + s.Inlines
	if total == 0 {
		return 0
	}
	return float64(s.Spawns) / float64(total)
}

// Snapshot returns the current counts.
func (c *PoolCounters) Snapshot() PoolStats {
	return PoolStats{
		Spawns:  c.spawns.Load(),
		Inlines: c.inlines.Load(),
		Panics:  c.panics.Load(),
	}
}

// Reset zeroes every counter.
func (c *PoolCounters) Reset() {
	c.spawns.Store(0)
	c.inlines.Store(0)
	c.panics.Store(0)
}

// ZapMonitor logs pool events. Spawns and inlines are logged at debug level.
type ZapMonitor struct {
	log *zap.Logger
}

var _ forkjoin.Monitor = (*ZapMonitor)(nil)

func NewZapMonitor(log *zap.Logger) *ZapMonitor {
	if log == nil {
		panic("telemetry.NewZapMonitor: logger cannot be nil")
	}
	return &ZapMonitor{log: log.Named("pool")}
}

func (m *ZapMonitor) OnSpawn(worker int) {
	m.log.Debug("spawn", zap.Int("worker", worker))
}

func (m *ZapMonitor) OnInline(worker int) {
	m.log.Debug("inline", zap.Int("worker", worker))
}

func (m *ZapMonitor) OnPanic(worker int, v any) {
	m.log.Error("task panic", zap.Int("worker", worker), zap.Any("value", v))
}

// Monitors fans every event out to each of ms, in order.
type Monitors []forkjoin.Monitor

func (ms Monitors) OnSpawn(worker int) {
	for _, m := range ms {
		m.OnSpawn(worker)
	}
}

func (ms Monitors) OnInline(worker int) {
	for _, m := range ms {
		m.OnInline(worker)
	}
}

func (ms Monitors) OnPanic(worker int, v any) {
	for _, m := range ms {
		m.OnPanic(worker, v)
	}
}
