package observability

import (
	"testing"

	"github.com/Zhima-Mochi/jewelshop/internal/observability"
	"github.com/stretchr/testify/assert"
)

type countingCounter struct{ total float64 }

func (c *countingCounter) Add(d float64, _ ...observability.Label) { c.total += d }
func (c *countingCounter) Bind(...observability.Label) observability.BoundCounter {
	return observability.NopCounter().Bind()
}

func TestNewFallsBackToNops(t *testing.T) {
	p := New(nil, nil, nil, nil)

	assert.NotNil(t, p.Tracer())
	assert.NotNil(t, p.Logger())
	assert.NotPanics(t, func() {
		p.Metrics().Counter(observability.MUsecaseRequests).Add(1)
		p.Metrics().Histogram(observability.MUsecaseDuration).Observe(1)
	})
}

func TestNewServesRegisteredCounters(t *testing.T) {
	c := &countingCounter{}
	p := New(nil, nil, map[observability.MetricKey]observability.Counter{
		observability.MUsecaseRequests: c,
		observability.MHTTPRequests:    nil,
	}, nil)

	p.Metrics().Counter(observability.MUsecaseRequests).Add(2)
	p.Metrics().Counter(observability.MHTTPRequests).Add(5)

	assert.Equal(t, 2.0, c.total)
}
