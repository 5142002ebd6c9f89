package payment

import (
	"context"
	"fmt"

	"github.com/Zhima-Mochi/jewelshop/internal/domain"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

func (s Status) Succeeded() bool { return s == StatusSuccess }

// Processor charges an amount and reports the outcome.
type Processor interface {
	ProcessPayment(ctx context.Context, amount decimal.Decimal) (Status, error)
}

type Method string

const (
	MethodCreditCard Method = "credit_card"
	MethodPayPal     Method = "paypal"
	MethodSimulated  Method = "simulated"
)

// CreditCardProcessor charges credit cards.
type CreditCardProcessor struct{}

func (CreditCardProcessor) ProcessPayment(context.Context, decimal.Decimal) (Status, error) {
	return StatusFailed, fmt.Errorf("payment: credit card: %w", domain.ErrNotImplemented)
}

// PayPalProcessor charges PayPal accounts.
type PayPalProcessor struct{}

func (PayPalProcessor) ProcessPayment(context.Context, decimal.Decimal) (Status, error) {
	return StatusFailed, fmt.Errorf("payment: paypal: %w", domain.ErrNotImplemented)
}
