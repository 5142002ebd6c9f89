package shop

import (
	"time"

	"github.com/Zhima-Mochi/jewelshop/internal/domain/payment"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// charge calls the payment collaborator and notes the result on the use-case
// span. External request metrics belong to the processor itself.
func (s *Shop) charge(r *run, amount decimal.Decimal) (payment.Status, error) {
	start := time.Now()
	status, err := s.payments.ProcessPayment(r.ctx, amount)

	outcome := string(status)
	if err != nil {
		outcome = "error"
	}
	r.span.AddEvent("payment_processed", trace.WithAttributes(
		attribute.String("payment.outcome", outcome),
		attribute.Int64("payment.duration_ms", time.Since(start).Milliseconds()),
	))
	return status, err
}
