// Package payment provides the payment processors the service can be
// configured with.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	dompayment "github.com/Zhima-Mochi/jewelshop/internal/domain/payment"
	"github.com/Zhima-Mochi/jewelshop/internal/observability"
	"github.com/Zhima-Mochi/jewelshop/internal/observability/logctx"
	"github.com/shopspring/decimal"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultSuccessRate = 0.7

var (
	ErrNegativeAmount = errors.New("payment: amount must not be negative")
	ErrUnknownMethod  = errors.New("payment: unknown method")
)

// SimulatedProcessor approves a configurable fraction of payments.
type SimulatedProcessor struct {
	mu          sync.Mutex
	random      *rand.Rand
	successRate float64

	tracer       observability.Tracer
	log          observability.Logger
	extCounter   observability.Counter
	extHistogram observability.Histogram
}

type SimulatedOption func(*SimulatedProcessor)

// WithSeed makes the approval sequence reproducible.
func WithSeed(seed int64) SimulatedOption {
	return func(p *SimulatedProcessor) { p.random = rand.New(rand.NewSource(seed)) }
}

func WithSuccessRate(rate float64) SimulatedOption {
	return func(p *SimulatedProcessor) { p.successRate = clamp(rate) }
}

func NewSimulatedProcessor(tel observability.Observability, opts ...SimulatedOption) *SimulatedProcessor {
	if tel == nil {
		tel = observability.Nop()
	}
	p := &SimulatedProcessor{
		random:       rand.New(rand.NewSource(time.Now().UnixNano())),
		successRate:  DefaultSuccessRate,
		tracer:       tel.Tracer(),
		log:          tel.Logger(),
		extCounter:   tel.Metrics().Counter(observability.MExternalRequests),
		extHistogram: tel.Metrics().Histogram(observability.MExternalRequestDuration),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *SimulatedProcessor) ProcessPayment(ctx context.Context, amount decimal.Decimal) (status dompayment.Status, err error) {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "Payment.Authorize",
		attribute.String("payment.method", string(dompayment.MethodSimulated)),
		attribute.String("payment.amount", amount.String()),
	)
	defer func() {
		outcome := string(status)
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.End()

		p.extCounter.Add(1,
			observability.L("peer", "payment"),
			observability.L("endpoint", "gateway.authorize"),
			observability.L("outcome", outcome),
		)
		p.extHistogram.Observe(time.Since(start).Seconds(),
			observability.L("peer", "payment"),
			observability.L("endpoint", "gateway.authorize"),
		)
		logctx.FromOr(ctx, p.log).Debug("payment_authorized",
			observability.F("amount", amount.String()),
			observability.F("outcome", outcome),
		)
	}()

	if amount.IsNegative() {
		return dompayment.StatusFailed, fmt.Errorf("%w: %s", ErrNegativeAmount, amount)
	}
	return p.authorize(ctx)
}

// authorize draws the simulated result.
func (p *SimulatedProcessor) authorize(ctx context.Context) (dompayment.Status, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	select {
	case <-ctx.Done():
		return dompayment.StatusFailed, ctx.Err()
	default:
	}

	if p.random.Float64() < p.successRate {
		return dompayment.StatusSuccess, nil
	}
	return dompayment.StatusFailed, nil
}

// SetSuccessRate adjusts the approval fraction, clamped to [0, 1].
func (p *SimulatedProcessor) SetSuccessRate(rate float64) {
	p.mu.Lock()
	p.successRate = clamp(rate)
	p.mu.Unlock()
}

func (p *SimulatedProcessor) SuccessRate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.successRate
}

func clamp(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	if rate > 1 {
		return 1
	}
	return rate
}

// NewProcessor returns the processor configured for method.
func NewProcessor(method dompayment.Method, tel observability.Observability, opts ...SimulatedOption) (dompayment.Processor, error) {
	switch method {
	case dompayment.MethodCreditCard:
		return dompayment.CreditCardProcessor{}, nil
	case dompayment.MethodPayPal:
		return dompayment.PayPalProcessor{}, nil
	case dompayment.MethodSimulated, "":
		return NewSimulatedProcessor(tel, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}
