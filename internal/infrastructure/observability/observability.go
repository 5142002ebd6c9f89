// Package observability assembles the Observability port from concrete
// tracer, logger and metric adapters.
package observability

import (
	"github.com/Zhima-Mochi/jewelshop/internal/observability"
)

type provider struct {
	tracer  observability.Tracer
	logger  observability.Logger
	metrics observability.Metrics
}

// instruments serves registered metrics by key; unknown keys get a nop.
type instruments struct {
	counters   map[observability.MetricKey]observability.Counter
	histograms map[observability.MetricKey]observability.Histogram
}

func (m *instruments) Counter(name observability.MetricKey) observability.Counter {
	return lookup(m.counters, name, observability.NopCounter())
}

func (m *instruments) Histogram(name observability.MetricKey) observability.Histogram {
	return lookup(m.histograms, name, observability.NopHistogram())
}

func lookup[T comparable](m map[observability.MetricKey]T, key observability.MetricKey, fallback T) T {
	var zero T
	if v, ok := m[key]; ok && v != zero {
		return v
	}
	return fallback
}

// without drops nil instruments so lookups never hand them out.
func without[T comparable](in map[observability.MetricKey]T) map[observability.MetricKey]T {
	var zero T
	out := make(map[observability.MetricKey]T, len(in))
	for k, v := range in {
		if v != zero {
			out[k] = v
		}
	}
	return out
}

// New assembles an Observability provider backed by the supplied tracer,
// logger and metric instruments. Nil parts fall back to nops.
func New(
	tracer observability.Tracer,
	logger observability.Logger,
	counters map[observability.MetricKey]observability.Counter,
	histograms map[observability.MetricKey]observability.Histogram,
) observability.Observability {
	if tracer == nil {
		tracer = observability.NopTracer()
	}
	if logger == nil {
		logger = observability.NopLogger()
	}

	metrics := observability.NopMetrics()
	if len(counters) > 0 || len(histograms) > 0 {
		metrics = &instruments{
			counters:   without(counters),
			histograms: without(histograms),
		}
	}
	return &provider{tracer: tracer, logger: logger, metrics: metrics}
}

func (p *provider) Tracer() observability.Tracer   { return p.tracer }
func (p *provider) Logger() observability.Logger   { return p.logger }
func (p *provider) Metrics() observability.Metrics { return p.metrics }
