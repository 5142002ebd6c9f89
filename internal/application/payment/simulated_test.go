package payment

import (
	"context"
	"testing"

	dompayment "github.com/Zhima-Mochi/jewelshop/internal/domain/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedProcessorRespectsRateBounds(t *testing.T) {
	amount := decimal.RequireFromString("120.50")

	always := NewSimulatedProcessor(nil, WithSeed(1), WithSuccessRate(1))
	never := NewSimulatedProcessor(nil, WithSeed(1), WithSuccessRate(0))

	for i := 0; i < 50; i++ {
		status, err := always.ProcessPayment(context.Background(), amount)
		require.NoError(t, err)
		assert.Equal(t, dompayment.StatusSuccess, status)

		status, err = never.ProcessPayment(context.Background(), amount)
		require.NoError(t, err)
		assert.Equal(t, dompayment.StatusFailed, status)
	}
}

func TestSimulatedProcessorIsReproducibleWithSeed(t *testing.T) {
	a := NewSimulatedProcessor(nil, WithSeed(42), WithSuccessRate(0.5))
	b := NewSimulatedProcessor(nil, WithSeed(42), WithSuccessRate(0.5))

	for i := 0; i < 20; i++ {
		sa, _ := a.ProcessPayment(context.Background(), decimal.NewFromInt(10))
		sb, _ := b.ProcessPayment(context.Background(), decimal.NewFromInt(10))
		assert.Equal(t, sa, sb)
	}
}

func TestSimulatedProcessorRejectsNegativeAmount(t *testing.T) {
	p := NewSimulatedProcessor(nil, WithSuccessRate(1))

	status, err := p.ProcessPayment(context.Background(), decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrNegativeAmount)
	assert.Equal(t, dompayment.StatusFailed, status)
}

func TestSimulatedProcessorHonoursCancellation(t *testing.T) {
	p := NewSimulatedProcessor(nil, WithSuccessRate(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	status, err := p.ProcessPayment(ctx, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, dompayment.StatusFailed, status)
}

func TestSetSuccessRateClamps(t *testing.T) {
	p := NewSimulatedProcessor(nil)
	assert.Equal(t, DefaultSuccessRate, p.SuccessRate())

	p.SetSuccessRate(3)
	assert.Equal(t, 1.0, p.SuccessRate())
	p.SetSuccessRate(-2)
	assert.Equal(t, 0.0, p.SuccessRate())
}

func TestNewProcessorSelectsByMethod(t *testing.T) {
	cc, err := NewProcessor(dompayment.MethodCreditCard, nil)
	require.NoError(t, err)
	assert.IsType(t, dompayment.CreditCardProcessor{}, cc)

	pp, err := NewProcessor(dompayment.MethodPayPal, nil)
	require.NoError(t, err)
	assert.IsType(t, dompayment.PayPalProcessor{}, pp)

	sim, err := NewProcessor(dompayment.MethodSimulated, nil, WithSuccessRate(0.25))
	require.NoError(t, err)
	require.IsType(t, &SimulatedProcessor{}, sim)
	assert.Equal(t, 0.25, sim.(*SimulatedProcessor).SuccessRate())

	_, err = NewProcessor("cash", nil)
	assert.ErrorIs(t, err, ErrUnknownMethod)
}
