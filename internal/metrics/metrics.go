// Package metrics adapts stage.Tether readings onto go-ethereum's metrics
// registry and exposes them over a small local JSON introspection endpoint.
//
// This is deliberately not a Prometheus exporter: the wire format is a
// plain JSON snapshot, not the Prometheus text format, so it doesn't
// reintroduce the Prometheus HTTP export this system's core declares out of
// scope. It reuses the same metrics.address configuration knob, though,
// since operators expect one place to look.
package metrics

import (
	gmetrics "github.com/ethereum/go-ethereum/metrics"

	"github.com/tidewatch-io/tidewatch/internal/stage"
)

// Counter is a monotonically increasing reading, backed by go-ethereum's
// metrics registry.
type Counter struct {
	inner gmetrics.Counter
}

// NewCounter registers (or looks up) a named counter on the default
// registry.
func NewCounter(name string) *Counter {
	return &Counter{inner: gmetrics.NewRegisteredCounter(name, gmetrics.DefaultRegistry)}
}

// Inc adds delta to the counter.
func (c *Counter) Inc(delta int64) { c.inner.Inc(delta) }

// Snapshot returns the current value as a stage.Reading.
func (c *Counter) Snapshot() stage.Reading {
	return stage.Reading{Kind: stage.ReadingCounter, Counter: c.inner.Snapshot().Count()}
}

// Gauge is a point-in-time reading, backed by go-ethereum's metrics
// registry.
type Gauge struct {
	inner gmetrics.GaugeFloat64
}

// NewGauge registers (or looks up) a named gauge on the default registry.
func NewGauge(name string) *Gauge {
	return &Gauge{inner: gmetrics.NewRegisteredGaugeFloat64(name, gmetrics.DefaultRegistry)}
}

// Set updates the gauge's value.
func (g *Gauge) Set(v float64) { g.inner.Update(v) }

// Snapshot returns the current value as a stage.Reading.
func (g *Gauge) Snapshot() stage.Reading {
	return stage.Reading{Kind: stage.ReadingGauge, Gauge: g.inner.Snapshot().Value()}
}

// Message is a simple string-valued reading (e.g. the last error message seen),
// not backed by the metrics registry since it isn't a number.
type Message struct {
	value string
}

// Set updates the message's value.
func (m *Message) Set(v string) { m.value = v }

// Snapshot returns the current value as a stage.Reading.
func (m *Message) Snapshot() stage.Reading {
	return stage.Reading{Kind: stage.ReadingMessage, Message: m.value}
}
